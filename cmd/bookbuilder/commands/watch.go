package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/preview"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Port int  `help:"Port to listen on (overrides serve.port)"`
	Poll bool `help:"Poll for changes on watch.interval instead of using filesystem events"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	return runServer(root.Config, w.Port, w.watch)
}

// watch rebuilds stale pages after every change until ctx is done.
func (w *WatchCmd) watch(ctx context.Context, bk *book, hub *preview.LiveReloadHub) error {
	rebuilder := preview.NewRebuilder(bk.builder, hub)
	go rebuilder.Run(ctx)
	defer logRebuildSummary(slog.Default(), rebuilder)

	if w.Poll || bk.cfg.Watch.Poll {
		poller, err := preview.NewPoller(bk.cfg.Watch.Interval, rebuilder.Request)
		if err != nil {
			return err
		}
		poller.Start()
		<-ctx.Done()
		return poller.Stop()
	}

	watcher, err := preview.NewWatcher(bk.cfg, rebuilder.Request)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	return watcher.Run(ctx)
}

// logRebuildSummary reports how many rebuilds ran and how the last one ended.
func logRebuildSummary(logger *slog.Logger, rebuilder *preview.Rebuilder) {
	if err := rebuilder.LastError(); err != nil {
		logger.Warn("Watch stopped after a failed rebuild", logfields.Count(rebuilder.Runs()), logfields.Error(err))
		return
	}
	logger.Info("Watch stopped", logfields.Count(rebuilder.Runs()))
}
