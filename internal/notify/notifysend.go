package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nudge/pkg/logx"
)

// Config tunes the notify-send dispatcher.
type Config struct {
	// Command is the binary to spawn. Default "notify-send".
	Command string
	// Timeout bounds one dispatch. Default 5s.
	Timeout time.Duration
	// RatePerMinute caps deliveries; bursts beyond it are dropped with
	// ErrRateLimited so a backlog of due items cannot storm the desktop.
	// Default 30.
	RatePerMinute int
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Command) == "" {
		c.Command = "notify-send"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = 30
	}
	return c
}

// NotifySend dispatches via the freedesktop notify-send utility.
type NotifySend struct {
	cfg     Config
	limiter *rate.Limiter
	log     logx.Logger
}

func NewNotifySend(cfg Config, log logx.Logger) *NotifySend {
	cfg = cfg.withDefaults()
	if log.IsZero() {
		log = logx.Nop()
	}
	perSec := rate.Limit(float64(cfg.RatePerMinute) / 60)
	return &NotifySend{
		cfg:     cfg,
		limiter: rate.NewLimiter(perSec, cfg.RatePerMinute),
		log:     log,
	}
}

// Dispatch spawns the notify command under a timeout. It never blocks the
// caller beyond that timeout; over-limit calls fail fast with ErrRateLimited.
func (d *NotifySend) Dispatch(ctx context.Context, n Notification) error {
	if !d.limiter.Allow() {
		return fmt.Errorf("%q: %w", n.Title, ErrRateLimited)
	}

	cctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, d.cfg.Command, dispatchArgs(n)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", d.cfg.Command, err)
	}
	d.log.Debug("notification dispatched",
		logx.String("title", n.Title),
		logx.String("urgency", n.Urgency.String()),
	)
	return nil
}

func dispatchArgs(n Notification) []string {
	return []string{"--urgency", n.Urgency.String(), "--", n.Title, n.Body}
}
