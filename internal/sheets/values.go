package sheets

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/analytics"
)

// Section titles of the dashboard sheet, in order.
const (
	SectionSummary    = "Summary"
	SectionMonthly    = "Monthly"
	SectionCategories = "Categories"
	SectionFlow       = "Money Flow"
	SectionHeatmap    = "Weekday Heatmap"
)

// dashboardLayout is the sheet content plus the row indexes of its
// section titles, which get bold formatting.
type dashboardLayout struct {
	values   [][]any
	sections []int64
}

func (l *dashboardLayout) section(title string, header ...any) {
	l.values = append(l.values, []any{})
	l.sections = append(l.sections, int64(len(l.values)))
	l.values = append(l.values, []any{title})
	if len(header) > 0 {
		l.values = append(l.values, header)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildDashboardValues lays out a result as spreadsheet rows.
func BuildDashboardValues(result *analytics.Result) [][]any {
	return buildDashboard(result).values
}

func buildDashboard(result *analytics.Result) dashboardLayout {
	var l dashboardLayout

	period := "All time"
	if result.Period != nil {
		period = fmt.Sprintf("%s - %s", result.Period.From.Format("2006-01-02"), result.Period.To.Format("2006-01-02"))
	}
	l.values = append(l.values,
		[]any{DefaultSpreadsheetName, period},
		[]any{"Generated", result.GeneratedAt.Format(time.RFC3339)},
	)

	l.section(SectionSummary)
	l.values = append(l.values,
		[]any{"Income", money(result.Summary.Income)},
		[]any{"Expenses", money(result.Summary.Expenses)},
		[]any{"Balance", money(result.Summary.Balance)},
	)

	l.section(SectionMonthly, "Month", "Income", "Expenses", "Net")
	for _, b := range result.Monthly {
		l.values = append(l.values, []any{b.MonthKey, money(b.Income), money(b.Expenses), money(b.Income.Sub(b.Expenses))})
	}

	l.section(SectionCategories, "Category", "Color", "Amount")
	for _, c := range result.Categories {
		l.values = append(l.values, []any{c.Name, c.Color, money(c.Amount)})
	}

	names := result.MoneyFlow.NodeNames()
	l.section(SectionFlow, "Source", "Target", "Value")
	for _, link := range result.MoneyFlow.Links {
		l.values = append(l.values, []any{names[link.Source], names[link.Target], money(link.Value)})
	}

	header := make([]any, 0, len(result.Heatmap.Categories)+1)
	header = append(header, "Day")
	for _, c := range result.Heatmap.Categories {
		header = append(header, c)
	}
	l.section(SectionHeatmap, header...)
	for day, row := range result.Heatmap.Data {
		label := fmt.Sprint(day)
		if day < len(result.Heatmap.Days) {
			label = result.Heatmap.Days[day]
		}
		cells := make([]any, 0, len(row)+1)
		cells = append(cells, label)
		for _, v := range row {
			cells = append(cells, money(v))
		}
		l.values = append(l.values, cells)
	}

	return l
}
