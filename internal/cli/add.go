package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nudge/internal/reminder"
	"nudge/internal/store"
)

var (
	addTime  string
	addFlags reminder.DayFlags
)

var addCmd = &cobra.Command{
	Use:   "add TITLE MESSAGE",
	Short: "Add a recurring reminder",
	Example: `  nudge add --time 10:00 --monday --wednesday standup "Join the call"
  nudge add --time 07:30 --weekday pills "Take your pills"`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addTime, "time", "", "time of day, HH:MM (24h)")
	f.BoolVar(&addFlags.Sunday, "sunday", false, "fire on Sundays")
	f.BoolVar(&addFlags.Monday, "monday", false, "fire on Mondays")
	f.BoolVar(&addFlags.Tuesday, "tuesday", false, "fire on Tuesdays")
	f.BoolVar(&addFlags.Wednesday, "wednesday", false, "fire on Wednesdays")
	f.BoolVar(&addFlags.Thursday, "thursday", false, "fire on Thursdays")
	f.BoolVar(&addFlags.Friday, "friday", false, "fire on Fridays")
	f.BoolVar(&addFlags.Saturday, "saturday", false, "fire on Saturdays")
	f.BoolVar(&addFlags.Weekday, "weekday", false, "fire Monday through Friday")
	f.BoolVar(&addFlags.Weekend, "weekend", false, "fire on Saturday and Sunday")
	_ = addCmd.MarkFlagRequired("time")
}

func runAdd(cmd *cobra.Command, args []string) error {
	_, cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	stCfg, err := cfg.Store()
	if err != nil {
		return err
	}
	st, err := store.Open(stCfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Insert(cmd.Context(), args[0], args[1], addTime, addFlags.Mask())
	if err != nil {
		return err
	}

	r, _ := reminder.New(id, args[0], args[1], addTime, addFlags.Mask())
	fmt.Println("added", r)
	return nil
}
