package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetalloc/app"
	"github.com/kilianp07/fleetalloc/core/normalize"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/pkg/export"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

var (
	scenarioPath string
	outFormat    string
	withMatrix   bool
	strict       bool
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate the tasks of a scenario file and print the report",
	RunE:  runAllocate,
}

func init() {
	allocateCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "config.json", "scenario document with vehicles and tasks")
	allocateCmd.Flags().StringVarP(&outFormat, "format", "f", formatTable, "output format: table, json or csv")
	allocateCmd.Flags().BoolVar(&withMatrix, "matrix", false, "include the full cost matrix")
	allocateCmd.Flags().BoolVar(&strict, "strict", false, "fail when the scenario has no vehicles or no tasks")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(cmd *cobra.Command, args []string) error {
	switch outFormat {
	case formatTable, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unknown format %q", outFormat)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if withMatrix {
		cfg.Allocation.IncludeMatrix = true
	}

	f, err := os.Open(scenarioPath)
	if err != nil {
		return fmt.Errorf("open scenario: %w", err)
	}
	sc, err := normalize.LoadScenario(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	if strict && normalize.Normalize(sc).Empty() {
		return normalize.ErrEmptyScenario
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := app.New(ctx, cfg, app.WithLogger(logger.New("allocate")))
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("allocate").Errorf("service close: %v", err)
		}
	}()

	rep, err := svc.Allocate(ctx, sc)
	if err != nil && rep.RunID == "" {
		return err
	}
	if err != nil {
		logger.New("allocate").Warnf("run not recorded: %v", err)
	}

	out := cmd.OutOrStdout()
	switch outFormat {
	case formatJSON:
		return export.WriteJSON(out, rep)
	case formatCSV:
		return export.WriteCSV(out, rep.Rows)
	default:
		return export.WriteTable(out, rep)
	}
}
