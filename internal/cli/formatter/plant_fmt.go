package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/domain"
)

func FormatImport(resp *contract.ImportResponse) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("Imported plant data"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d products (%d processes)\n", resp.Products, resp.Processes)
	fmt.Fprintf(&b, "  %d machines\n", resp.Machines)
	fmt.Fprintf(&b, "  %d purchase orders\n", resp.PurchaseOrders)
	if resp.Finished > 0 {
		fmt.Fprintf(&b, "  %d finished stock records\n", resp.Finished)
	}
	if resp.Holidays > 0 {
		fmt.Fprintf(&b, "  %d holidays\n", resp.Holidays)
	}
	return b.String()
}

func FormatHolidays(holidays []domain.Holiday) string {
	if len(holidays) == 0 {
		return Dim("No holidays registered.") + "\n"
	}
	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		rows = append(rows, []string{FormatDate(h.Date), h.Date.Weekday().String()[:3], orDash(h.Kind)})
	}
	return RenderTable(Cols("DATE", "DAY", "KIND"), rows)
}
