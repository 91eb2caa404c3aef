package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/induction/core/snapshot"
	infrasnapshot "github.com/kilianp07/induction/infra/snapshot"
)

var topOpts struct {
	n      int
	format string
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the head of the latest ranked snapshot",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVarP(&topOpts.n, "number", "n", 0, "number of rows (defaults to snapshot.top_n)")
	topCmd.Flags().StringVarP(&topOpts.format, "format", "f", "table", "output format: table, csv or json")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, _ []string) error {
	if topOpts.n < 0 {
		return fmt.Errorf("-n must not be negative")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n := topOpts.n
	if n == 0 {
		n = cfg.Snapshot.TopN
	}
	store, err := infrasnapshot.New(cfg.Snapshot)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.Latest(cmd.Context())
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		_, err = fmt.Fprintln(cmd.ErrOrStderr(), "no snapshot yet, run a cycle first")
		return err
	}
	if err != nil {
		return err
	}
	if topOpts.format == "table" {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "cycle %s planned for %s\n", snap.CycleID, snap.PlanningTime.Format("2006-01-02 15:04 MST")); err != nil {
			return err
		}
	}
	return writeRows(cmd.OutOrStdout(), topOpts.format, snapshot.Top(snap, n))
}
