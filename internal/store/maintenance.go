package store

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"nudge/pkg/logx"
)

// Maintenance runs store housekeeping on a cron schedule, off the scheduler's
// poll loop.
type Maintenance struct {
	c   *cron.Cron
	log logx.Logger
}

// StartMaintenance schedules Maintain() on the given cron spec (robfig/cron
// five-field syntax or a descriptor like "@daily", the default).
func StartMaintenance(st Store, spec string, log logx.Logger) (*Maintenance, error) {
	if strings.TrimSpace(spec) == "" {
		spec = "@daily"
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := st.Maintain(ctx); err != nil {
			log.Warn("store maintenance failed", logx.Err(err))
			return
		}
		log.Debug("store maintenance completed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Debug("store maintenance scheduled", logx.String("spec", spec))
	return &Maintenance{c: c, log: log}, nil
}

// Stop blocks until any in-flight maintenance run finishes.
func (m *Maintenance) Stop() {
	if m == nil || m.c == nil {
		return
	}
	<-m.c.Stop().Done()
}
