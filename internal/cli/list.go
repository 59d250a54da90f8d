package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nudge/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reminders",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
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

	reminders, err := st.FindAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		fmt.Println("No reminders.")
		return nil
	}
	for _, r := range reminders {
		fmt.Println(r)
	}
	return nil
}
