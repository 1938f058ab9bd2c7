// Package preview serves the built site during writing. Requests for a page
// rebuild it first when its inputs changed, and connected browsers reload
// after watch-mode rebuilds.
package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/config"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/metrics"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
)

// Server is the dev HTTP server for a book.
type Server struct {
	cfg      *config.Config
	builder  *build.Builder
	hub      *LiveReloadHub
	registry *prom.Registry
	errs     *errors.HTTPErrorAdapter
	log      *slog.Logger
	router   chi.Router
	http     *http.Server
	addr     net.Addr
}

// Option configures a Server.
type Option func(*Server)

// WithHub sets the live reload hub. Without one, a private hub is created.
func WithHub(hub *LiveReloadHub) Option {
	return func(s *Server) { s.hub = hub }
}

// WithRegistry sets the registry served at /metrics.
func WithRegistry(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the request and error logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates a server for the pages of builder.
func NewServer(cfg *config.Config, builder *build.Builder, opts ...Option) *Server {
	s := &Server{cfg: cfg, builder: builder, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewLiveReloadHub(nil)
	}
	s.errs = errors.NewHTTPErrorAdapter(s.log)
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the server's live reload hub.
func (s *Server) Hub() *LiveReloadHub { return s.hub }

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	if s.cfg.Serve.LiveReload {
		r.Get("/livereload", s.hub.ServeHTTP)
		r.Get("/livereload.js", handleScript)
	}
	if s.cfg.Serve.Metrics {
		r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	r.Get("/*", s.handleSite)

	s.router = r
}

func handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write([]byte(LiveReloadScript))
}

// handleSite serves a file from the output directory. Page requests rebuild
// the page first when it is stale.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	if !strings.HasSuffix(name, ".html") {
		http.ServeFile(w, r, filepath.Join(s.cfg.Paths.Output, filepath.FromSlash(name)))
		return
	}

	file := strings.TrimSuffix(name, ".html")
	if _, ok := s.builder.PageForFile(file); ok {
		ctx := observability.WithTrigger(r.Context(), "request")
		if _, err := s.builder.BuildPage(ctx, file); err != nil {
			s.errs.WriteError(w, r, err)
			return
		}
	}
	s.servePage(w, r, name)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	// #nosec G304 -- name is cleaned and rooted at the output directory.
	data, err := os.ReadFile(filepath.Join(s.cfg.Paths.Output, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		s.errs.WriteError(w, r, errors.WrapError(err, errors.CategoryFileSystem, "read page").
			WithContext("file", name).Build())
		return
	}
	if s.cfg.Serve.LiveReload {
		data = injectScript(data)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Serve.Port))
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "listen").
			WithContext("port", s.cfg.Serve.Port).Build()
	}
	s.addr = ln.Addr()
	// No write timeout: live reload streams stay open.
	s.http = &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second, IdleTimeout: 300 * time.Second}

	go func() {
		if err := s.http.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	s.log.Info("Preview server listening",
		logfields.Port(s.cfg.Serve.Port),
		logfields.URL(fmt.Sprintf("http://localhost:%d", s.cfg.Serve.Port)))
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr { return s.addr }

// Shutdown closes live reload streams and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
