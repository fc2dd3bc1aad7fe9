package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cashflow/internal/model"
)

func TestBuildHeatmap_WeekdayPlacement(t *testing.T) {
	txns := []model.Transaction{
		expense("sun", "10", "Mercado", day(2026, 10, 11)),
		expense("thu", "25", "Lazer", day(2026, 10, 15)),
		expense("thu2", "5", "Lazer", day(2026, 10, 15)),
		income("salary", "3000", "pix", day(2026, 10, 15)),
	}

	got, err := BuildHeatmap(txns, monthPeriod(2026, 10))
	require.NoError(t, err)

	assert.Equal(t, WeekdayLabels, got.Days)
	assert.Equal(t, []string{"Lazer", "Mercado"}, got.Categories)
	require.Len(t, got.Data, 7)

	assertDecimal(t, "10", got.Data[time.Sunday][1])
	assertDecimal(t, "30", got.Data[time.Thursday][0])
	assertDecimal(t, "0", got.Data[time.Monday][0])
	assertDecimal(t, "0", got.Data[time.Sunday][0])
}

func TestBuildHeatmap_PeriodFiltersByOwnDay(t *testing.T) {
	txns := []model.Transaction{
		expense("in", "10", "Mercado", day(2026, 10, 11)),
		expense("out", "99", "Viagem", day(2026, 9, 30)),
		// projected card months never apply here
		cardExpense("card", "40", "Lazer", day(2026, 8, 20)),
	}

	got, err := BuildHeatmap(txns, monthPeriod(2026, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercado"}, got.Categories)
}

func TestBuildHeatmap_InstallmentUsesPerInstallmentValue(t *testing.T) {
	tv := installmentExpense("tv", "1200", 3, "Casa", day(2026, 10, 11))

	got, err := BuildHeatmap([]model.Transaction{tv}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Casa"}, got.Categories)
	assertDecimal(t, "400", got.Data[time.Sunday][0])
}

func TestBuildHeatmap_WeekdayInPeriodLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// Monday 01:00 UTC is still Sunday evening in São Paulo
	txn := expense("late", "15", "Bar", time.Date(2026, 10, 12, 1, 0, 0, 0, time.UTC))
	period := &model.ReportingPeriod{
		From: time.Date(2026, 10, 1, 0, 0, 0, 0, saoPaulo),
		To:   time.Date(2026, 10, 31, 0, 0, 0, 0, saoPaulo),
	}

	got, err := BuildHeatmap([]model.Transaction{txn}, period)
	require.NoError(t, err)
	assertDecimal(t, "15", got.Data[time.Sunday][0])
	assertDecimal(t, "0", got.Data[time.Monday][0])
}

func TestBuildHeatmap_Empty(t *testing.T) {
	got, err := BuildHeatmap(nil, monthPeriod(2026, 10))
	require.NoError(t, err)
	assert.Empty(t, got.Categories)
	require.Len(t, got.Data, 7)
	for _, row := range got.Data {
		assert.Empty(t, row)
	}
}
