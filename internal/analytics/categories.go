package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
	"github.com/Veraticus/cashflow/internal/palette"
)

// ByCategory returns expense totals per category for period, largest first.
//
// When externalBreakdown is non-empty it already represents all card
// spend, so card transactions are skipped and the breakdown entries are
// merged in instead. Card charges are matched with the projected invoice
// window. Categories whose total is not positive are dropped, and colors
// are assigned over the final set of names.
func ByCategory(transactions []model.Transaction, period *model.ReportingPeriod, externalBreakdown []model.CategoryInvoice) ([]CategoryTotal, error) {
	if err := validateInput(transactions, period); err != nil {
		return nil, err
	}
	return byCategory(transactions, period, externalBreakdown), nil
}

func byCategory(transactions []model.Transaction, period *model.ReportingPeriod, externalBreakdown []model.CategoryInvoice) []CategoryTotal {
	skipCards := len(externalBreakdown) > 0
	totals := make(map[string]decimal.Decimal)

	for _, txn := range transactions {
		if txn.Type != model.TypeExpense {
			continue
		}
		if skipCards && txn.IsCreditCard() {
			continue
		}
		key := txn.CategoryKey()
		totals[key] = totals[key].Add(resolve(txn, period, ProjectedInvoiceWindow))
	}

	for _, entry := range externalBreakdown {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = UncategorizedInvoice
		}
		totals[name] = totals[name].Add(entry.Total)
	}

	result := make([]CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		if !amount.IsPositive() {
			common.LogDebug("dropping non-positive category", common.Fields{
				"category": name,
				"amount":   amount.String(),
			})
			continue
		}
		result = append(result, CategoryTotal{Name: name, Amount: amount})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Name < result[j].Name
	})

	names := make([]string, len(result))
	for i := range result {
		names[i] = result[i].Name
	}
	colors := palette.AssignColors(names)
	for i := range result {
		result[i].Color = colors[result[i].Name]
	}

	return result
}
