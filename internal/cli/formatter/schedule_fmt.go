package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodsched/internal/contract"
)

// FormatGenerate summarises a finished run.
func FormatGenerate(resp *contract.GenerateResponse) string {
	var b strings.Builder
	b.WriteString(Header("Schedule generated"))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Run         %s\n", TruncID(resp.RunID))
	fmt.Fprintf(&b, "  Shift       %dh\n", resp.WorkingHours)
	fmt.Fprintf(&b, "  Entries     %s (%d on machines, %d unconstrained)\n",
		Bold(fmt.Sprint(resp.TotalCount)), resp.ConstrainedCount, resp.UnconstrainedCount)
	if resp.Makespan != nil {
		fmt.Fprintf(&b, "  Makespan    %s\n", resp.Makespan.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(&b, "  Makespan    %s\n", Dim("nothing to produce"))
	}
	fmt.Fprintf(&b, "  Iterations  %d", resp.Iterations)
	if resp.BackfilledSteps > 0 {
		fmt.Fprintf(&b, " %s", Dim(fmt.Sprintf("(+%d backfilled)", resp.BackfilledSteps)))
	}
	b.WriteString("\n")

	b.WriteString(formatWarnings(resp.Warnings))
	return b.String()
}

func formatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StyleYellow.Render(fmt.Sprintf("%d warning(s):", len(warnings))))
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString("  ")
		b.WriteString(StyleYellow.Render("!"))
		b.WriteString(" ")
		b.WriteString(w)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEntries renders the stored schedule as a table in planned order.
func FormatEntries(resp *contract.ListEntriesResponse) string {
	if len(resp.Entries) == 0 {
		return Dim("No schedule stored. Run `prodsched schedule generate --hours 8`.") + "\n"
	}

	cols := []Column{
		{Title: "START"}, {Title: "END"}, {Title: "PO"}, {Title: "PRODUCT"},
		{Title: "STEP", Right: true}, {Title: "PROCESS"}, {Title: "MACHINE"},
		{Title: "QTY", Right: true}, {Title: "SETUP", Right: true}, {Title: "RUN", Right: true},
	}
	rows := make([][]string, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		machine := Dim("--")
		if e.Constrained {
			machine = StyleBlue.Render(e.MachineNo)
		}
		rows = append(rows, []string{
			FormatStamp(e.PlannedStart),
			FormatStamp(e.PlannedEnd),
			orDash(e.PONumber),
			e.ProductCode,
			fmt.Sprint(e.StepNo),
			e.ProcessName,
			machine,
			fmt.Sprint(e.Quantity),
			FormatMinutes(e.SetupMinutes),
			FormatMinutes(e.ProcessingMinutes),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(cols, rows))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d entries", len(resp.Entries))
	if resp.Makespan != nil {
		fmt.Fprintf(&b, ", makespan %s", resp.Makespan.Format("2006-01-02 15:04"))
	}
	if resp.Run != nil {
		fmt.Fprintf(&b, " %s", Dim(fmt.Sprintf("(run %s, %dh shift)", shortID(resp.Run.ID), resp.Run.WorkingHours)))
	}
	b.WriteString("\n")
	if resp.Run != nil {
		b.WriteString(formatWarnings(resp.Run.Warnings))
	}
	return b.String()
}

func FormatClear(resp *contract.ClearResponse) string {
	return fmt.Sprintf("Cleared %d schedule entries.\n", resp.Deleted)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
