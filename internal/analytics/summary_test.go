package analytics

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

func TestSummarize(t *testing.T) {
	salary := income("inc", "3000", "pix", day(2026, 10, 5))
	groceries := expense("groc", "250", "Mercado", day(2026, 10, 7))
	lastMonth := expense("old", "100", "Mercado", day(2026, 9, 28))
	tv := installmentExpense("tv", "1200", 3, "Casa", day(2026, 10, 1))

	tests := []struct {
		name         string
		external     *decimal.Decimal
		period       *model.ReportingPeriod
		wantIncome   string
		wantExpenses string
		wantBalance  string
		transactions []model.Transaction
	}{
		{
			name:         "single income without period",
			transactions: []model.Transaction{salary},
			wantIncome:   "3000", wantExpenses: "0", wantBalance: "3000",
		},
		{
			name:         "installment in first due month",
			transactions: []model.Transaction{tv},
			period:       monthPeriod(2026, 11),
			wantIncome:   "0", wantExpenses: "400", wantBalance: "-400",
		},
		{
			name:         "period filters income and cash expenses by day",
			transactions: []model.Transaction{salary, groceries, lastMonth, tv},
			period:       monthPeriod(2026, 10),
			wantIncome:   "3000", wantExpenses: "250", wantBalance: "2750",
		},
		{
			name:         "no period counts everything at face value",
			transactions: []model.Transaction{salary, groceries, lastMonth, tv},
			wantIncome:   "3000", wantExpenses: "1550", wantBalance: "1450",
		},
		{
			name:         "external invoice total is additive",
			transactions: []model.Transaction{salary, groceries},
			period:       monthPeriod(2026, 10),
			external:     decPtr("500"),
			wantIncome:   "3000", wantExpenses: "750", wantBalance: "2250",
		},
		{
			name:         "non-positive external total is ignored",
			transactions: []model.Transaction{salary, groceries},
			period:       monthPeriod(2026, 10),
			external:     decPtr("-20"),
			wantIncome:   "3000", wantExpenses: "250", wantBalance: "2750",
		},
		{
			name:       "empty input",
			wantIncome: "0", wantExpenses: "0", wantBalance: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Summarize(tt.transactions, tt.period, tt.external)
			require.NoError(t, err)
			assertDecimal(t, tt.wantIncome, got.Income)
			assertDecimal(t, tt.wantExpenses, got.Expenses)
			assertDecimal(t, tt.wantBalance, got.Balance)
		})
	}
}

func TestSummarize_ProjectedWindowNotUsed(t *testing.T) {
	// A card charge from August must not reach October's summary even
	// though the category breakdown would count it.
	charge := cardExpense("c1", "80", "Lazer", day(2026, 8, 20))

	got, err := Summarize([]model.Transaction{charge}, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	assertDecimal(t, "0", got.Expenses)
}

func TestSummarize_MalformedTransaction(t *testing.T) {
	bad := income("broken", "10", "pix", day(2026, 1, 1))
	bad.Type = "refund"

	_, err := Summarize([]model.Transaction{bad}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedTransaction))
}
