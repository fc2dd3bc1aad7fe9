package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/model"
)

// BuildHeatmap spreads expenses over weekday rows and category columns.
//
// Inclusion is decided by the transaction's own day only: the heatmap
// shows when spending happened, not when it settles. An installment
// purchase contributes its amortized installment value on that day.
func BuildHeatmap(transactions []model.Transaction, period *model.ReportingPeriod) (WeeklyHeatmap, error) {
	if err := validateInput(transactions, period); err != nil {
		return WeeklyHeatmap{}, err
	}
	return buildHeatmap(transactions, period), nil
}

func buildHeatmap(transactions []model.Transaction, period *model.ReportingPeriod) WeeklyHeatmap {
	included := make([]model.Transaction, 0, len(transactions))
	seen := make(map[string]bool)
	categories := make([]string, 0)

	for _, txn := range transactions {
		if txn.Type != model.TypeExpense {
			continue
		}
		if period != nil && !period.Contains(txn.Date) {
			continue
		}
		included = append(included, txn)
		if key := txn.CategoryKey(); !seen[key] {
			seen[key] = true
			categories = append(categories, key)
		}
	}
	sort.Strings(categories)

	column := make(map[string]int, len(categories))
	for i, c := range categories {
		column[c] = i
	}

	data := make([][]decimal.Decimal, len(WeekdayLabels))
	for day := range data {
		data[day] = make([]decimal.Decimal, len(categories))
		for c := range data[day] {
			data[day][c] = decimal.Zero
		}
	}

	for _, txn := range included {
		date := txn.Date
		if period != nil {
			date = date.In(period.Location())
		}
		day := int(date.Weekday())
		c := column[txn.CategoryKey()]
		data[day][c] = data[day][c].Add(txn.PerInstallment())
	}

	days := make([]string, len(WeekdayLabels))
	copy(days, WeekdayLabels)

	return WeeklyHeatmap{
		Categories: categories,
		Days:       days,
		Data:       data,
	}
}
