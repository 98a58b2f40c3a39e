// Package export renders allocation reports as JSON, CSV or plain tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/kilianp07/fleetalloc/core/allocation"
)

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, rep allocation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes the per-vehicle allocation rows.
func WriteCSV(w io.Writer, rows []allocation.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle", "capacity", "remaining", "tasks", "route"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Vehicle,
			formatFloat(r.Capacity),
			formatFloat(r.Remaining),
			r.Tasks,
			formatFloat(r.Route),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAlertsCSV writes vehicle alerts.
func WriteAlertsCSV(w io.Writer, alerts []allocation.Alert) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle", "severity", "message"}); err != nil {
		return err
	}
	for _, a := range alerts {
		if err := cw.Write([]string{a.Vehicle, string(a.Severity), a.Message}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNotificationsCSV writes task notifications in their report order.
func WriteNotificationsCSV(w io.Writer, notes []allocation.Notification) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task", "priority", "urgency", "window_start", "window_end", "notification"}); err != nil {
		return err
	}
	for _, n := range notes {
		rec := []string{
			n.Task,
			strconv.Itoa(n.Priority),
			string(n.Urgency),
			formatFloat(n.WindowStart),
			formatFloat(n.WindowEnd),
			n.Message,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints a human readable report: allocation rows, unallocated
// tasks, alerts and notifications. The cost matrix is included when present.
func WriteTable(w io.Writer, rep allocation.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	p.line("VEHICLE\tCAPACITY\tREMAINING\tTASKS\tROUTE")
	for _, r := range rep.Rows {
		p.line("%s\t%s\t%s\t%s\t%.2f", r.Vehicle, formatFloat(r.Capacity), formatFloat(r.Remaining), r.Tasks, r.Route)
	}
	p.line("")
	if len(rep.Unallocated) == 0 {
		p.line("All tasks allocated.")
	} else {
		p.line("UNALLOCATED\tDEMAND\tPRIORITY")
		for _, t := range rep.Unallocated {
			p.line("%s\t%s\t%d", t.Label(), formatFloat(t.Demand), t.Priority)
		}
	}
	p.line("")
	if len(rep.Alerts) > 0 {
		p.line("ALERT\tSEVERITY\tVEHICLE")
		for _, a := range rep.Alerts {
			p.line("%s\t%s\t%s", a.Message, a.Severity, a.Vehicle)
		}
		p.line("")
	}
	if len(rep.Notifications) > 0 {
		p.line("TASK\tURGENCY\tWINDOW\tNOTIFICATION")
		for _, n := range rep.Notifications {
			p.line("%s\t%s\t[%s, %s]\t%s", n.Task, n.Urgency, formatFloat(n.WindowStart), formatFloat(n.WindowEnd), n.Message)
		}
		p.line("")
	}
	if rep.Matrix != nil {
		writeMatrix(p, *rep.Matrix)
		p.line("")
	}
	for _, msg := range rep.Warnings {
		p.line("warning: %s", msg)
	}
	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

func writeMatrix(p *printer, m allocation.CostMatrix) {
	header := "VEHICLE"
	for _, label := range m.Tasks {
		header += "\t" + label
	}
	p.line("%s", header)
	for i, v := range m.Vehicles {
		row := v
		for _, c := range m.Cells[i] {
			row += "\t" + c.String()
		}
		p.line("%s", row)
	}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
