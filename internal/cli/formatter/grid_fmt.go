package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodsched/internal/contract"
)

const gridBarWidth = 6

// FormatWeeklyGrid renders machine load per day. Each cell shows a load
// bar against the net working minutes of one day.
func FormatWeeklyGrid(resp *contract.WeeklyGridResponse) string {
	var b strings.Builder
	end := resp.From.AddDate(0, 0, len(resp.Days)-1)
	b.WriteString(Header(fmt.Sprintf("Machine load %s to %s", FormatDate(resp.From), FormatDate(end))))
	b.WriteString("\n")

	if len(resp.Rows) == 0 {
		b.WriteString(Dim("No machines to show."))
		b.WriteString("\n")
		return b.String()
	}

	cols := []Column{{Title: "MACHINE"}, {Title: "TYPE"}}
	for _, d := range resp.Days {
		cols = append(cols, Column{Title: d.Format("Mon 01-02")})
	}
	cols = append(cols, Column{Title: "WEEK", Right: true})

	rows := make([][]string, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		row := []string{r.MachineNo, Dim(r.MachineType)}
		var week float64
		for _, c := range r.Cells {
			week += c.BusyMinutes
			row = append(row, gridCell(c, resp.Daily))
		}
		row = append(row, FormatMinutes(week))
		rows = append(rows, row)
	}
	b.WriteString(RenderTable(cols, rows))
	return b.String()
}

func gridCell(c contract.GridCell, daily int) string {
	if c.BusyMinutes <= 0 {
		return Dim(strings.Repeat("·", gridBarWidth))
	}
	load := 0.0
	if daily > 0 {
		load = c.BusyMinutes / float64(daily)
	}
	return RenderLoadBar(load, gridBarWidth)
}
