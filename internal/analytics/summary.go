package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/model"
)

// Summarize computes income, expenses and balance for period.
//
// Income is counted at face value on its own day. Expenses are resolved
// with installment amortization. A positive externalInvoiceTotal is added
// to expenses as-is; card spend it represents is never recomputed here.
func Summarize(transactions []model.Transaction, period *model.ReportingPeriod, externalInvoiceTotal *decimal.Decimal) (Summary, error) {
	if err := validateInput(transactions, period); err != nil {
		return Summary{}, err
	}
	return summarize(transactions, period, externalInvoiceTotal), nil
}

func summarize(transactions []model.Transaction, period *model.ReportingPeriod, externalInvoiceTotal *decimal.Decimal) Summary {
	income := decimal.Zero
	expenses := decimal.Zero

	for _, txn := range transactions {
		switch txn.Type {
		case model.TypeIncome:
			if period == nil || period.Contains(txn.Date) {
				income = income.Add(txn.Value)
			}
		case model.TypeExpense:
			expenses = expenses.Add(resolve(txn, period, ExactDay))
		}
	}

	if externalInvoiceTotal != nil && externalInvoiceTotal.IsPositive() {
		expenses = expenses.Add(*externalInvoiceTotal)
	}

	return Summary{
		Balance:  income.Sub(expenses),
		Income:   income,
		Expenses: expenses,
	}
}
