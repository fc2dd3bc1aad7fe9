package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/analytics"
)

const (
	barWidth          = 24
	heatmapLabelWidth = 10
)

// PeriodLabel describes the reporting period of a result.
func PeriodLabel(result *analytics.Result) string {
	if result.Period == nil {
		return "All time"
	}
	return fmt.Sprintf("%s to %s", result.Period.From.Format("2006-01-02"), result.Period.To.Format("2006-01-02"))
}

// RenderDashboard renders every section of a result for the terminal.
func RenderDashboard(result *analytics.Result) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		FormatTitle("Cashflow Dashboard"),
		SubtitleStyle.Render(PeriodLabel(result)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		RenderSummary(result.Summary),
		"",
		RenderMonthly(result.Monthly),
		"",
		RenderCategories(result.Categories),
		"",
		RenderFlow(result.MoneyFlow),
		"",
		RenderHeatmap(result.Heatmap),
	)
}

// RenderSummary renders the period balance box.
func RenderSummary(s analytics.Summary) string {
	lines := []string{
		fmt.Sprintf("Income    %s", IncomeStyle.Render(FormatMoney(s.Income))),
		fmt.Sprintf("Expenses  %s", ExpenseStyle.Render(FormatMoney(s.Expenses))),
		fmt.Sprintf("Balance   %s", FormatSigned(s.Balance)),
	}
	return RenderBox(MoneyIcon+" Summary", strings.Join(lines, "\n"))
}

// RenderMonthly renders the trailing monthly series with an expense bar per month.
func RenderMonthly(buckets []analytics.MonthlyBucket) string {
	peak := decimal.Zero
	for _, b := range buckets {
		peak = decimal.Max(peak, b.Income, b.Expenses)
	}

	t := newTable(1, "Month", "Income", "Expenses", "Net", "")
	for _, b := range buckets {
		t.Row(
			b.MonthKey,
			FormatMoney(b.Income),
			FormatMoney(b.Expenses),
			FormatMoney(b.Income.Sub(b.Expenses)),
			bar(b.Expenses, peak),
		)
	}
	return section(CalendarIcon+" Monthly", t.String())
}

// RenderCategories renders the category breakdown with each slice's color
// and its share of the total.
func RenderCategories(categories []analytics.CategoryTotal) string {
	if len(categories) == 0 {
		return section(ChartIcon+" Categories", SubtleStyle.Render("No spending in this period"))
	}

	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Amount)
	}

	t := newTable(2, "", "Category", "Amount", "Share")
	for _, c := range categories {
		t.Row(Swatch(c.Color), c.Name, FormatMoney(c.Amount), Share(c.Amount, total))
	}
	return section(ChartIcon+" Categories", t.String())
}

// RenderFlow renders the money-flow links as source to target rows.
func RenderFlow(graph analytics.MoneyFlowGraph) string {
	if len(graph.Links) == 0 {
		return section(FlowIcon+" Money Flow", SubtleStyle.Render("Not enough income and spending to draw a flow"))
	}

	names := graph.NodeNames()
	t := newTable(3, "From", "", "To", "Value")
	for _, link := range graph.Links {
		t.Row(names[link.Source], "→", names[link.Target], FormatMoney(link.Value))
	}
	return section(FlowIcon+" Money Flow", t.String())
}

// RenderHeatmap renders spending per weekday and category.
func RenderHeatmap(h analytics.WeeklyHeatmap) string {
	if len(h.Categories) == 0 {
		return section(CalendarIcon+" Weekday Heatmap", SubtleStyle.Render("No spending in this period"))
	}

	peak := decimal.Zero
	for _, row := range h.Data {
		for _, v := range row {
			peak = decimal.Max(peak, v)
		}
	}

	headers := make([]string, 0, len(h.Categories)+1)
	headers = append(headers, "")
	for _, c := range h.Categories {
		headers = append(headers, truncate(c, heatmapLabelWidth))
	}

	t := newTable(1, headers...)
	for i, row := range h.Data {
		cells := make([]string, 0, len(row)+1)
		label := ""
		if i < len(h.Days) {
			label = h.Days[i]
		}
		cells = append(cells, label)
		for _, v := range row {
			cells = append(cells, heatCell(v, peak))
		}
		t.Row(cells...)
	}
	return section(CalendarIcon+" Weekday Heatmap", t.String())
}

// newTable builds a bordered table whose first textCols columns are left
// aligned and the rest right aligned.
func newTable(textCols int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col < textCols {
				return TableCellStyle
			}
			return NumberCellStyle
		})
}

func section(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, BoldStyle.Render(title), body)
}

func bar(value, peak decimal.Decimal) string {
	if !peak.IsPositive() || !value.IsPositive() {
		return ""
	}
	n := int(value.Div(peak).Mul(decimal.NewFromInt(barWidth)).Ceil().IntPart())
	return ExpenseStyle.Render(strings.Repeat("█", n))
}

// Share formats amount as a percentage of total.
func Share(amount, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "-"
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// heatCell shades a value by its intensity relative to the peak.
func heatCell(value, peak decimal.Decimal) string {
	if !value.IsPositive() {
		return SubtleStyle.Render("·")
	}
	text := FormatMoney(value)
	if peak.IsPositive() && value.Div(peak).GreaterThanOrEqual(decimal.NewFromFloat(0.5)) {
		return ExpenseStyle.Bold(true).Render(text)
	}
	return text
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
