package preview

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

// Poller calls a function on a fixed interval. Watch mode uses it where
// filesystem events are unreliable, such as network mounts.
type Poller struct {
	scheduler gocron.Scheduler
	interval  time.Duration
}

// NewPoller schedules onTick every interval. Ticks never overlap; a tick due
// while the previous one runs is skipped.
func NewPoller(interval time.Duration, onTick func()) (*Poller, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(onTick),
		gocron.WithName("rebuild-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryConfig, "schedule poll").
			WithContext("interval", interval.String()).Build()
	}
	return &Poller{scheduler: s, interval: interval}, nil
}

// Start begins polling.
func (p *Poller) Start() {
	slog.Info("Polling for changes", slog.Duration("interval", p.interval))
	p.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running tick.
func (p *Poller) Stop() error {
	return p.scheduler.Shutdown()
}
