package preview

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
)

// Rebuilder runs stale-only builds on request and tells browsers to reload.
// Requests made while a build runs collapse into one follow-up build.
type Rebuilder struct {
	builder  *build.Builder
	hub      *LiveReloadHub
	requests chan struct{}

	mu      sync.RWMutex
	lastErr error
	runs    int
}

// NewRebuilder returns a rebuilder for builder. hub may be nil.
func NewRebuilder(builder *build.Builder, hub *LiveReloadHub) *Rebuilder {
	return &Rebuilder{builder: builder, hub: hub, requests: make(chan struct{}, 1)}
}

// Request asks for a rebuild without blocking.
func (r *Rebuilder) Request() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) {
	ctx = observability.WithTrigger(ctx, "change")
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.requests:
			r.rebuild(ctx)
		}
	}
}

func (r *Rebuilder) rebuild(ctx context.Context) {
	report, err := r.builder.Build(ctx, build.Options{SkipUpToDate: true})

	r.mu.Lock()
	r.lastErr = err
	r.runs++
	r.mu.Unlock()

	hash := strconv.FormatInt(time.Now().UnixNano(), 10)
	switch {
	case err != nil:
		slog.Warn("Rebuild failed", logfields.Error(err))
		r.broadcast("error:" + hash)
	case report.Built > 0:
		slog.Info("Rebuilt pages", logfields.Count(report.Built))
		r.broadcast(hash)
	}
}

func (r *Rebuilder) broadcast(hash string) {
	if r.hub != nil {
		r.hub.Broadcast(hash)
	}
}

// LastError returns the error of the most recent rebuild, if any. The watch
// command reports it on shutdown.
func (r *Rebuilder) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Runs returns the number of rebuilds performed.
func (r *Rebuilder) Runs() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runs
}
