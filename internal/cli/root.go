// Package cli wires the nudge subcommands: serve (the daemon), and the
// one-shot store commands add, list and remove.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nudge/internal/config"
	"nudge/internal/notify"
	"nudge/pkg/logx"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "nudge",
	Short: "nudge – a local recurring reminder daemon",
	Long: `nudge keeps a small set of weekly recurring reminders in a local
SQLite database and, while serving, fires each one at its configured
time through desktop notifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main. A command that dies is also
// surfaced as a critical desktop notification, so the human learns about
// scheduler failures through the same channel as reminders.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		notify.CriticalNow("nudge failed", err)
		fmt.Fprintln(os.Stderr, "nudge:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to config file (default ~/.nudge/config.yaml)")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(serveCmd)
}

// bootstrap loads the config and builds a console logger for one-shot
// commands. serve builds its own full logging service instead.
func bootstrap() (*config.Manager, *config.Config, logx.Logger, error) {
	path := cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, nil, logx.Logger{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	mgr := config.NewManager(path)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, nil, logx.Logger{}, fmt.Errorf("load config: %w", err)
	}
	log := logx.NewConsole(cfg.Logging.Level)
	mgr.SetLogger(log)
	return mgr, cfg, log, nil
}
