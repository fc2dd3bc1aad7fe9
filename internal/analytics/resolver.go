package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

// InvoiceWindow selects how a non-installment card charge is matched
// against a reporting period.
type InvoiceWindow bool

const (
	// ExactDay counts a charge only when its own day is in the period.
	// Summary and monthly figures always use it.
	ExactDay InvoiceWindow = false
	// ProjectedInvoiceWindow also counts a card charge whose purchase
	// month plus one or plus two falls in the period's months, because it
	// may settle on a later invoice. Only the category breakdown uses it.
	ProjectedInvoiceWindow InvoiceWindow = true
)

// projectedInvoiceOffsets are the month offsets a single card charge may settle in.
var projectedInvoiceOffsets = []int{1, 2}

// Resolve returns the value txn contributes to period. A nil period means
// the whole history, where every transaction counts at face value.
// Installment purchases contribute total/N for every installment that
// falls due in the period.
func Resolve(txn model.Transaction, period *model.ReportingPeriod, window InvoiceWindow) (decimal.Decimal, error) {
	if err := txn.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := validatePeriod(period); err != nil {
		return decimal.Zero, err
	}
	return resolve(txn, period, window), nil
}

// resolve assumes txn and period are valid.
func resolve(txn model.Transaction, period *model.ReportingPeriod, window InvoiceWindow) decimal.Decimal {
	if period == nil {
		return txn.Value
	}
	if txn.IsInstallmentPurchase() {
		return resolveInstallments(txn, period)
	}

	if period.Contains(txn.Date) {
		return txn.Value
	}

	if window == ProjectedInvoiceWindow && txn.IsCreditCard() {
		purchaseMonth := model.MonthStart(txn.PurchaseDate(), period.Location())
		for _, offset := range projectedInvoiceOffsets {
			if period.ContainsMonth(purchaseMonth.AddDate(0, offset, 0)) {
				return txn.Value
			}
		}
	}

	return decimal.Zero
}

// resolveInstallments sums the installments whose due month touches the
// period. Installment i falls due in purchase month + i.
func resolveInstallments(txn model.Transaction, period *model.ReportingPeriod) decimal.Decimal {
	if _, fromCharge := txn.InstallmentTotal(); !fromCharge {
		common.LogDebug("installment charge has no total amount, using face value", common.Fields{
			"transaction_id": txn.ID,
		})
	}

	loc := period.Location()
	per := txn.PerInstallment()

	sum := decimal.Zero
	for _, due := range installmentDueMonths(txn, loc) {
		if period.Contains(due) || period.Contains(model.MonthEnd(due, loc)) {
			sum = sum.Add(per)
		}
	}
	return sum
}

// installmentDueMonths lists the first instant of every month an
// installment purchase falls due in.
func installmentDueMonths(txn model.Transaction, loc *time.Location) []time.Time {
	purchaseMonth := model.MonthStart(txn.PurchaseDate(), loc)
	months := make([]time.Time, 0, txn.Installment.Count)
	for i := 1; i <= txn.Installment.Count; i++ {
		months = append(months, purchaseMonth.AddDate(0, i, 0))
	}
	return months
}

func validatePeriod(period *model.ReportingPeriod) error {
	if period == nil {
		return nil
	}
	if err := period.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidPeriod, err)
	}
	return nil
}

// validateInput checks the transactions and the optional period once per call.
func validateInput(transactions []model.Transaction, period *model.ReportingPeriod) error {
	if err := validatePeriod(period); err != nil {
		return err
	}
	return model.ValidateAll(transactions)
}
