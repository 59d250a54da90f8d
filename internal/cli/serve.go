package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nudge/internal/notify"
	"nudge/internal/schedule"
	"nudge/internal/store"
	"nudge/pkg/logx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reminder scheduler until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr, cfg, _, err := bootstrap()
	if err != nil {
		return err
	}
	logSvc, log := logx.New(cfg.Logx())
	defer logSvc.Close()
	mgr.SetLogger(log)

	stCfg, err := cfg.Store()
	if err != nil {
		return err
	}
	st, err := store.Open(stCfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	notifCfg, err := cfg.Notifier()
	if err != nil {
		return err
	}
	notifier := notify.NewNotifySend(notifCfg, log)

	sched, count, err := schedule.New(ctx, st, notifier, log, time.Now())
	if err != nil {
		return err
	}
	log.Info("initial schedule built", logx.Int("reminders", count))
	if err := notifier.Dispatch(ctx, notify.Notification{
		Title: "nudge",
		Body:  fmt.Sprintf("Scheduling %d reminders", count),
	}); err != nil {
		log.Warn("startup notification failed", logx.Err(err))
	}

	if cfg.MaintenanceEnabled() {
		maint, err := store.StartMaintenance(st, cfg.Maintenance.Schedule, log)
		if err != nil {
			return fmt.Errorf("maintenance schedule: %w", err)
		}
		defer maint.Stop()
	}

	runnerCfg, err := cfg.Runner()
	if err != nil {
		return err
	}
	runner := schedule.NewRunner(sched, runnerCfg, log)

	// Config hot reload: level and poll interval apply without restart.
	sub := mgr.Subscribe(1)
	defer mgr.Unsubscribe(sub)
	go func() {
		if err := mgr.Watch(ctx); err != nil {
			log.Warn("config watch unavailable", logx.Err(err))
		}
	}()
	go func() {
		for c := range sub {
			logSvc.Apply(c.Logx())
			if rc, err := c.Runner(); err == nil {
				runner.Apply(rc)
			}
		}
	}()

	return runner.Run(ctx)
}
