package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/cashflow/internal/model"
)

// fixedNow is a Thursday.
var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func monthPeriod(year int, month time.Month) *model.ReportingPeriod {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return &model.ReportingPeriod{From: from, To: from.AddDate(0, 1, -1)}
}

func span(from, to time.Time) *model.ReportingPeriod {
	return &model.ReportingPeriod{From: from, To: to}
}

func income(id, value, method string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:            id,
		Type:          model.TypeIncome,
		Value:         dec(value),
		Date:          date,
		PaymentMethod: method,
	}
}

func expense(id, value, category string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:            id,
		Type:          model.TypeExpense,
		Value:         dec(value),
		Date:          date,
		PaymentMethod: "pix",
		Category:      category,
	}
}

func cardExpense(id, value, category string, date time.Time) model.Transaction {
	txn := expense(id, value, category, date)
	txn.PaymentMethod = model.PaymentMethodCreditCard
	txn.Installment = &model.InstallmentInfo{
		Modality:     model.ModalityCash,
		Count:        1,
		PurchaseDate: date,
		Card:         model.Card{ID: "card-1", Last4: "4242"},
	}
	return txn
}

func installmentExpense(id, total string, count int, category string, purchase time.Time) model.Transaction {
	txn := cardExpense(id, total, category, purchase)
	txn.Installment.Modality = model.ModalityInstallment
	txn.Installment.Count = count
	txn.Installment.TotalAmount = decimal.NewNullDecimal(dec(total))
	return txn
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
