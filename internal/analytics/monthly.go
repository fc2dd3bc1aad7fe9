package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

// MonthlySeries returns income and expenses for the TrailingMonths calendar
// months ending with the month of now, oldest first. The window never
// follows a reporting period. Months without activity are zero.
//
// Installment purchases put total/N into each due month inside the window;
// installments outside it are dropped. External monthly invoice totals are
// added to the matching month's expenses.
func MonthlySeries(transactions []model.Transaction, now time.Time, externalInvoiceByMonth []model.MonthlyInvoice) ([]MonthlyBucket, error) {
	if err := model.ValidateAll(transactions); err != nil {
		return nil, err
	}
	return monthlySeries(transactions, now, externalInvoiceByMonth), nil
}

func monthlySeries(transactions []model.Transaction, now time.Time, externalInvoiceByMonth []model.MonthlyInvoice) []MonthlyBucket {
	loc := now.Location()
	first := model.MonthStart(now, loc).AddDate(0, -(TrailingMonths - 1), 0)

	buckets := make([]MonthlyBucket, TrailingMonths)
	index := make(map[string]int, TrailingMonths)
	for i := range buckets {
		key := model.MonthKey(first.AddDate(0, i, 0))
		buckets[i] = MonthlyBucket{MonthKey: key, Income: decimal.Zero, Expenses: decimal.Zero}
		index[key] = i
	}

	bucketFor := func(t time.Time) (int, bool) {
		i, ok := index[model.MonthKey(t.In(loc))]
		return i, ok
	}

	for _, txn := range transactions {
		switch {
		case txn.Type == model.TypeIncome:
			if i, ok := bucketFor(txn.Date); ok {
				buckets[i].Income = buckets[i].Income.Add(txn.Value)
			}
		case txn.IsInstallmentPurchase():
			per := txn.PerInstallment()
			for _, due := range installmentDueMonths(txn, loc) {
				if i, ok := bucketFor(due); ok {
					buckets[i].Expenses = buckets[i].Expenses.Add(per)
				}
			}
		default:
			if i, ok := bucketFor(txn.Date); ok {
				buckets[i].Expenses = buckets[i].Expenses.Add(txn.Value)
			}
		}
	}

	for _, inv := range externalInvoiceByMonth {
		key := fmt.Sprintf("%04d-%02d", inv.Year, inv.Month)
		i, ok := index[key]
		if !ok {
			common.LogDebug("external invoice outside trailing window", common.Fields{"month": key})
			continue
		}
		buckets[i].Expenses = buckets[i].Expenses.Add(inv.Total)
	}

	return buckets
}
