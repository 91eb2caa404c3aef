package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/induction/app"
	"github.com/kilianp07/induction/core/model"
	"github.com/kilianp07/induction/core/ranking"
	"github.com/kilianp07/induction/core/source"
	"github.com/kilianp07/induction/infra/logger"
	"github.com/kilianp07/induction/pkg/export"
)

var rankOpts struct {
	dataDir      string
	planningTime string
	format       string
	save         bool
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the fleet from a directory of CSV files",
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

func init() {
	f := rankCmd.Flags()
	f.StringVar(&rankOpts.dataDir, "data", "", "data directory (defaults to sources.data_dir)")
	f.StringVar(&rankOpts.planningTime, "planning-time", "", "reference instant, e.g. 2025-09-01T21:00:00Z")
	f.StringVarP(&rankOpts.format, "format", "f", "table", "output format: table, csv or json")
	f.BoolVar(&rankOpts.save, "save", false, "store the result as the latest snapshot")
	rootCmd.AddCommand(rankCmd)
}

func writeRows(w io.Writer, format string, rows []model.RankedRow) error {
	switch format {
	case "table":
		export.WriteTable(w, rows)
		return nil
	case "csv":
		return export.WriteCSV(w, rows)
	case "json":
		return export.WriteJSON(w, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runRank(cmd *cobra.Command, _ []string) error {
	switch rankOpts.format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", rankOpts.format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if rankOpts.dataDir != "" {
		cfg.Sources.Dir = rankOpts.dataDir
	}
	var at time.Time
	if rankOpts.planningTime != "" {
		t := source.ParseTime(rankOpts.planningTime)
		if t == nil {
			return fmt.Errorf("invalid planning time %q", rankOpts.planningTime)
		}
		at = *t
	} else {
		at = cfg.Engine.Planning(time.Now().UTC())
	}

	if rankOpts.save {
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()
		snap, err := svc.RunLocal(cmd.Context(), at)
		if err != nil {
			return err
		}
		return writeRows(cmd.OutOrStdout(), rankOpts.format, snap.Rows)
	}

	tables, err := source.LoadDir(cfg.Sources.Dir, cfg.Sources.FileMap())
	if err != nil {
		return err
	}
	eng, err := ranking.NewEngine(cfg.Engine.Config, logger.New("engine"))
	if err != nil {
		return err
	}
	res, err := eng.Run(cmd.Context(), tables, at)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rankOpts.format, res.Rows())
}
