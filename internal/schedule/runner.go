package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"nudge/pkg/logx"
)

// DefaultPollInterval is the firing granularity: an occurrence is delivered
// within one interval of its instant.
const DefaultPollInterval = 100 * time.Millisecond

// RunnerConfig tunes the poll loop.
type RunnerConfig struct {
	PollInterval time.Duration
}

// Runner owns the poll loop: it captures "now" once per tick, hands it to the
// scheduler, and sleeps. It also keeps systemd informed (readiness, watchdog,
// stopping) when the daemon runs under a unit with those enabled.
type Runner struct {
	sched *Scheduler
	log   logx.Logger

	mu       sync.Mutex
	interval time.Duration
	changed  chan struct{}
}

func NewRunner(sched *Scheduler, cfg RunnerConfig, log logx.Logger) *Runner {
	if log.IsZero() {
		log = logx.Nop()
	}
	iv := cfg.PollInterval
	if iv <= 0 {
		iv = DefaultPollInterval
	}
	return &Runner{
		sched:    sched,
		log:      log,
		interval: iv,
		changed:  make(chan struct{}, 1),
	}
}

// Apply adjusts the poll interval at runtime (config hot reload).
func (r *Runner) Apply(cfg RunnerConfig) {
	iv := cfg.PollInterval
	if iv <= 0 {
		iv = DefaultPollInterval
	}
	r.mu.Lock()
	if iv == r.interval {
		r.mu.Unlock()
		return
	}
	r.interval = iv
	r.mu.Unlock()

	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *Runner) currentInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// Run blocks until ctx is cancelled. The loop is single-threaded and
// cooperative: one tick, one sleep, no suspension anywhere else.
func (r *Runner) Run(ctx context.Context) error {
	// Under systemd these are no-ops outside a unit (NOTIFY_SOCKET unset).
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	var watchdog <-chan time.Time
	if wd, err := daemon.SdWatchdogEnabled(false); err == nil && wd > 0 {
		t := time.NewTicker(wd / 2)
		defer t.Stop()
		watchdog = t.C
		r.log.Debug("systemd watchdog enabled", logx.Duration("interval", wd))
	}

	ticker := time.NewTicker(r.currentInterval())
	defer ticker.Stop()
	r.log.Info("scheduler loop started", logx.Duration("poll_interval", r.currentInterval()))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("scheduler loop stopped")
			return nil
		case <-r.changed:
			iv := r.currentInterval()
			ticker.Reset(iv)
			r.log.Info("poll interval changed", logx.Duration("poll_interval", iv))
		case <-ticker.C:
			r.sched.Tick(ctx, time.Now())
		case <-watchdog:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
