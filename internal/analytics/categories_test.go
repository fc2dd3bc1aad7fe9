package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cashflow/internal/model"
)

func categoryNames(totals []CategoryTotal) []string {
	names := make([]string, len(totals))
	for i, c := range totals {
		names[i] = c.Name
	}
	return names
}

func TestByCategory_KeyResolution(t *testing.T) {
	tagged := expense("t", "30", "", day(2026, 10, 2))
	tagged.Tags = []model.Tag{{Type: "loja", Name: "Padaria"}, {Type: "Categoria", Name: "Alimentacao"}}

	blankTag := expense("b", "20", "", day(2026, 10, 3))
	blankTag.Tags = []model.Tag{{Type: "categoria", Name: "  "}}

	txns := []model.Transaction{
		expense("m", "100", "Mercado", day(2026, 10, 1)),
		tagged,
		blankTag,
		income("salary", "5000", "pix", day(2026, 10, 5)),
	}

	got, err := ByCategory(txns, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercado", "Alimentacao", model.FallbackCategory}, categoryNames(got))
	assertDecimal(t, "100", got[0].Amount)
	assertDecimal(t, "30", got[1].Amount)
	assertDecimal(t, "20", got[2].Amount)
}

func TestByCategory_SortsByAmountThenName(t *testing.T) {
	txns := []model.Transaction{
		expense("1", "50", "Zoo", day(2026, 10, 1)),
		expense("2", "50", "Academia", day(2026, 10, 1)),
		expense("3", "75", "Lazer", day(2026, 10, 1)),
		expense("4", "25", "Lazer", day(2026, 10, 2)),
	}

	got, err := ByCategory(txns, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lazer", "Academia", "Zoo"}, categoryNames(got))
	assertDecimal(t, "100", got[0].Amount)
}

func TestByCategory_ProjectsCardChargesIntoInvoiceMonths(t *testing.T) {
	txns := []model.Transaction{
		cardExpense("card", "80", "Lazer", day(2026, 8, 20)),
		expense("cash", "80", "Lazer", day(2026, 8, 20)),
	}

	got, err := ByCategory(txns, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assertDecimal(t, "80", got[0].Amount)
}

func TestByCategory_ExternalBreakdown(t *testing.T) {
	txns := []model.Transaction{
		expense("groc", "200", "Mercado", day(2026, 10, 3)),
		cardExpense("card", "999", "Mercado", day(2026, 10, 4)),
		installmentExpense("tv", "1200", 3, "Casa", day(2026, 9, 10)),
	}
	breakdown := []model.CategoryInvoice{
		{Name: "Mercado", Total: dec("150")},
		{Name: "", Total: dec("40")},
		{Name: "Estorno", Total: dec("-30")},
		{Name: "Zerado", Total: dec("0")},
	}

	got, err := ByCategory(txns, monthPeriod(2026, 10), breakdown)
	require.NoError(t, err)

	// card spend comes from the breakdown only
	assert.Equal(t, []string{"Mercado", UncategorizedInvoice}, categoryNames(got))
	assertDecimal(t, "350", got[0].Amount)
	assertDecimal(t, "40", got[1].Amount)
}

func TestByCategory_NoDoubleCountingWithBreakdown(t *testing.T) {
	card := cardExpense("card", "300", "Mercado", day(2026, 10, 4))
	breakdown := []model.CategoryInvoice{{Name: "Mercado", Total: dec("300")}}

	without, err := ByCategory([]model.Transaction{card}, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	with, err := ByCategory([]model.Transaction{card}, monthPeriod(2026, 10), breakdown)
	require.NoError(t, err)

	require.Len(t, without, 1)
	require.Len(t, with, 1)
	assert.True(t, without[0].Amount.Equal(with[0].Amount))
}

func TestByCategory_DistinctColors(t *testing.T) {
	txns := make([]model.Transaction, 0, 50)
	for i := 0; i < 50; i++ {
		txns = append(txns, expense(fmt.Sprintf("e%d", i), fmt.Sprintf("%d", 10+i), fmt.Sprintf("Categoria %02d", i), day(2026, 10, 1)))
	}

	got, err := ByCategory(txns, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	require.Len(t, got, 50)

	seen := make(map[string]bool)
	for _, c := range got {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c.Color)
		assert.False(t, seen[c.Color], "color %s reused", c.Color)
		seen[c.Color] = true
	}
}

func TestByCategory_EmptyInput(t *testing.T) {
	got, err := ByCategory(nil, monthPeriod(2026, 10), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
