package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/contract"
)

// FormatProgress lists each scheduled product with its finish and delivery
// risk. now anchors the relative due dates.
func FormatProgress(resp *contract.ProgressResponse, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Delivery progress"))
	b.WriteString("\n")

	if len(resp.Products) == 0 {
		b.WriteString(Dim("Nothing scheduled."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		StyleGreen.Render(fmt.Sprintf("%d on track", resp.OnTrack)),
		StyleYellow.Render(fmt.Sprintf("%d at risk", resp.AtRisk)),
		StyleRed.Render(fmt.Sprintf("%d late", resp.Late)),
	)

	cols := []Column{
		{Title: "PRODUCT"}, {Title: "NAME"}, {Title: "QTY", Right: true},
		{Title: "START"}, {Title: "FINISH"}, {Title: "DUE"},
		{Title: "SLACK", Right: true}, {Title: "RISK"},
	}
	rows := make([][]string, 0, len(resp.Products))
	for _, p := range resp.Products {
		start, finish := Dim("--"), Dim("--")
		if p.FirstStart != nil {
			start = FormatStamp(*p.FirstStart)
		}
		if p.LastEnd != nil {
			finish = FormatStamp(*p.LastEnd)
		}
		due := fmt.Sprintf("%s %s", FormatDate(p.DeliveryDate), Dim("("+DueIn(p.DeliveryDate, now)+")"))
		rows = append(rows, []string{
			p.ProductCode,
			orDash(p.ProductName),
			fmt.Sprint(p.Quantity),
			start,
			finish,
			due,
			RiskColor(p.Risk).Render(FormatMinutes(p.SlackMin)),
			RiskIndicator(p.Risk),
		})
	}
	b.WriteString(RenderTable(cols, rows))
	return b.String()
}
