package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetalloc/core/commlog"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

var (
	commLogPath  string
	commVehicle  string
	commFormat   string
	commScenario string
	commOut      string
)

var commCmd = &cobra.Command{
	Use:   "comm",
	Short: "Inspect and synthesize inter-vehicle communication logs",
}

var commParseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Split a communication log into announcements, winners and vehicle status",
	RunE:  runCommParse,
}

var commSynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Add forwarded announcements for every vehicle pair of a scenario",
	RunE:  runCommSynth,
}

func init() {
	commParseCmd.Flags().StringVarP(&commLogPath, "log", "l", "communication_log.json", "communication log document")
	commParseCmd.Flags().StringVar(&commVehicle, "vehicle", commlog.AllVehicles, "only show rows involving this vehicle")
	commParseCmd.Flags().StringVarP(&commFormat, "format", "f", formatTable, "output format: table or json")

	commSynthCmd.Flags().StringVarP(&commLogPath, "log", "l", "communication_log.json", "communication log document")
	commSynthCmd.Flags().StringVarP(&commScenario, "scenario", "s", "config.json", "scenario providing the vehicle ids")
	commSynthCmd.Flags().StringVarP(&commOut, "out", "o", "", "output file; stdout when empty")

	commCmd.AddCommand(commParseCmd, commSynthCmd)
	rootCmd.AddCommand(commCmd)
}

func loadCommLog(path string) (commlog.Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return commlog.Log{}, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()
	return commlog.Load(f)
}

func runCommParse(cmd *cobra.Command, args []string) error {
	l, err := loadCommLog(commLogPath)
	if err != nil {
		return err
	}
	parsed := commlog.Parse(l.Events).Filter(commVehicle)
	out := cmd.OutOrStdout()
	switch commFormat {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	case formatTable:
		return writeParsed(out, parsed)
	default:
		return fmt.Errorf("unknown format %q", commFormat)
	}
}

func writeParsed(w io.Writer, p commlog.Parsed) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ANNOUNCEMENTS (%d)\n", len(p.Announcements))
	fmt.Fprintln(tw, "TIME\tFROM\tTO\tTASK\tPICKUP\tDELIVERY\tWEIGHT")
	for _, a := range p.Announcements {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", num(a.Time), a.From, a.To, a.TaskID, a.PickupEdge, a.DeliveryEdge, optNum(a.Weight))
	}
	fmt.Fprintf(tw, "\nWINNERS (%d)\n", len(p.Winners))
	fmt.Fprintln(tw, "TIME\tFROM\tTO\tTASK\tWINNER\tBEST BID\tBEST HOLDER")
	for _, win := range p.Winners {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", num(win.Time), win.From, win.To, win.TaskID, win.Winner, optNum(win.BestBid), win.BestHolder)
	}
	fmt.Fprintf(tw, "\nVEHICLE STATUS (%d)\n", len(p.Statuses))
	fmt.Fprintln(tw, "TIME\tVEHICLE\tBATTERY\tEDGE\tNEXT\tTASK\tASSIGNED")
	for _, s := range p.Statuses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", num(s.Time), s.Vehicle, optNum(s.Battery), s.CurrentEdge, s.NextEdge, s.CurrentTask, s.AssignedTasks)
	}
	return tw.Flush()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optNum(f *float64) string {
	if f == nil {
		return "-"
	}
	return num(*f)
}

func runCommSynth(cmd *cobra.Command, args []string) error {
	l, err := loadCommLog(commLogPath)
	if err != nil {
		return err
	}
	res, err := normalize.LoadFile(commScenario)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(res.Vehicles))
	for _, v := range res.Vehicles {
		ids = append(ids, v.ID)
	}
	merged := l.WithEvents(commlog.Synthesize(ids, l.Events))

	if commOut == "" {
		return commlog.Write(cmd.OutOrStdout(), merged)
	}
	f, err := os.Create(commOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := commlog.Write(f, merged); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
