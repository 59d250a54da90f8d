package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nudge/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a reminder by id",
	Long: `Remove deletes a reminder from the store. A running serve daemon does
not drop the reminder from its live schedule until it is restarted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

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

	if err := st.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Println("removed reminder", id)
	return nil
}
