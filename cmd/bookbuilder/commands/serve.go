package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
	"git.home.luguber.info/inful/bookbuilder/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port int `help:"Port to listen on (overrides serve.port)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	return runServer(root.Config, s.Port, nil)
}

// background runs alongside the server until ctx is done.
type background func(ctx context.Context, bk *book, hub *preview.LiveReloadHub) error

// runServer builds the stale pages and serves the site until interrupted.
func runServer(configPath string, port int, bg background) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bk, err := openBook(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		bk.cfg.Serve.Port = port
	}

	// A failing initial build shows up again when its page is requested.
	startup := observability.WithTrigger(ctx, "startup")
	if report, err := bk.builder.Build(startup, build.Options{SkipUpToDate: true}); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	} else {
		slog.Info("Initial build complete", logfields.Count(report.Built))
	}

	hub := preview.NewLiveReloadHub(bk.recorder)
	server := preview.NewServer(bk.cfg, bk.builder, preview.WithHub(hub), preview.WithRegistry(bk.registry))
	if err := server.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	if bg != nil {
		go func() { errCh <- bg(ctx, bk, hub) }()
	}

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	slog.Info("Shutting down preview server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("Preview server shutdown error", logfields.Error(shutdownErr))
	}
	return err
}
