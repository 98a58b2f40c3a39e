package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetalloc/simulator"
)

var (
	genCfg simulator.Config
	genOut string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a random scenario document",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntVar(&genCfg.Vehicles, "vehicles", 5, "number of vehicles")
	f.IntVar(&genCfg.Tasks, "tasks", 20, "number of tasks")
	f.Float64Var(&genCfg.Area, "area", 100, "side of the square locations are drawn from")
	f.Float64Var(&genCfg.ReconShare, "recon-share", 0.2, "fraction of reconnaissance vehicles and tasks")
	f.Float64Var(&genCfg.StrikeShare, "strike-share", 0, "fraction of strike vehicles and tasks")
	f.Float64Var(&genCfg.SparseShare, "sparse-share", 0, "fraction of records left to defaults")
	f.Int64Var(&genCfg.Seed, "seed", 1, "random seed")
	f.StringVarP(&genOut, "out", "o", "", "output file; stdout when empty")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	g, err := simulator.New(genCfg)
	if err != nil {
		return err
	}
	sc := g.Generate()

	var w io.Writer = cmd.OutOrStdout()
	if genOut != "" {
		f, err := os.Create(genOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sc)
}
