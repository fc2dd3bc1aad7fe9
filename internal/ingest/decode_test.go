package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

func TestDecode_ListAndEnvelope(t *testing.T) {
	list := `[{"id":"a","type":"income","value":3000,"date":"2026-10-05","payment_method":"pix"}]`
	wrapped := `{"transactions":` + list + `}`

	for name, input := range map[string]string{"list": list, "envelope": wrapped} {
		t.Run(name, func(t *testing.T) {
			txns, err := Decode(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, txns, 1)

			txn := txns[0]
			assert.Equal(t, "a", txn.ID)
			assert.Equal(t, model.TypeIncome, txn.Type)
			assert.True(t, decimal.NewFromInt(3000).Equal(txn.Value))
			assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), txn.Date)
			assert.Equal(t, "pix", txn.PaymentMethod)
			assert.Nil(t, txn.Installment)
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	txns, err := Decode(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Empty(t, txns)

	txns, err = Decode(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestDecode_AmountsAndDates(t *testing.T) {
	input := `[
		{"id":"n","type":"expense","value":"120.50","date":"2026-10-05T14:30:00-03:00"},
		{"id":"m","type":"expense","value":99.9,"date":"2026-10-05T14:30:00"}
	]`

	txns, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.True(t, decimal.RequireFromString("120.50").Equal(txns[0].Value))
	assert.True(t, txns[0].Date.Equal(time.Date(2026, 10, 5, 17, 30, 0, 0, time.UTC)))
	assert.True(t, decimal.RequireFromString("99.9").Equal(txns[1].Value))
	assert.Equal(t, time.UTC, txns[1].Date.Location())
}

func TestDecode_Tags(t *testing.T) {
	input := `[
		{"id":"map","type":"expense","value":1,"date":"2026-10-01",
		 "tags":{"loja":[{"name":"Padaria"}],"categoria":[{"name":"Alimentacao"},{"name":"Extra"}]}},
		{"id":"list","type":"expense","value":1,"date":"2026-10-01",
		 "tags":[{"type":"categoria","name":"Mercado"},{"type":"loja","name":"Super"}]}
	]`

	txns, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []model.Tag{
		{Type: "categoria", Name: "Alimentacao"},
		{Type: "categoria", Name: "Extra"},
		{Type: "loja", Name: "Padaria"},
	}, txns[0].Tags)
	assert.Equal(t, "Alimentacao", txns[0].CategoryKey())

	assert.Equal(t, []model.Tag{
		{Type: "categoria", Name: "Mercado"},
		{Type: "loja", Name: "Super"},
	}, txns[1].Tags)
}

func TestDecode_InstallmentCharge(t *testing.T) {
	input := `[{
		"id":"tv","type":"expense","value":400,"date":"2026-11-05","payment_method":"credit_card",
		"category":" Casa ",
		"installment_charge":{"modality":"installment","installments_count":3,"total_amount":"1200",
			"purchase_date":"2026-10-01","card":{"id":"c1","last4":"4242"}},
		"modality":"cash","installments_count":1
	}]`

	txns, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	require.NotNil(t, txn.Installment)
	assert.Equal(t, "Casa", txn.Category)
	assert.Equal(t, model.ModalityInstallment, txn.Installment.Modality)
	assert.Equal(t, 3, txn.Installment.Count)
	assert.True(t, txn.Installment.TotalAmount.Valid)
	assert.True(t, decimal.NewFromInt(1200).Equal(txn.Installment.TotalAmount.Decimal))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), txn.Installment.PurchaseDate)
	assert.Equal(t, model.Card{ID: "c1", Last4: "4242"}, txn.Installment.Card)
	assert.True(t, txn.IsInstallmentPurchase())
}

func TestDecode_ChargeDefaults(t *testing.T) {
	input := `[{
		"id":"x","type":"expense","value":300,"date":"2026-10-05",
		"installment_charge":{"installments_count":3,"total_amount":"abc"}
	}]`

	txns, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	info := txns[0].Installment
	require.NotNil(t, info)
	assert.Equal(t, model.ModalityInstallment, info.Modality)
	assert.False(t, info.TotalAmount.Valid)
	assert.Equal(t, txns[0].Date, info.PurchaseDate)
}

func TestDecode_LegacyTopLevelFields(t *testing.T) {
	input := `[{"id":"old","type":"expense","value":600,"date":"2026-10-05",
		"modality":"installment","installments_count":6}]`

	txns, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	info := txns[0].Installment
	require.NotNil(t, info)
	assert.Equal(t, model.ModalityInstallment, info.Modality)
	assert.Equal(t, 6, info.Count)
	assert.False(t, info.TotalAmount.Valid)
	assert.True(t, decimal.NewFromInt(100).Equal(txns[0].PerInstallment()))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    string
		wantField string
	}{
		{
			name:   "bad date names id",
			input:  `[{"id":"t1","type":"expense","value":1,"date":"05/10/2026"}]`,
			wantID: "t1", wantField: "date",
		},
		{
			name:   "missing date",
			input:  `[{"id":"t2","type":"expense","value":1}]`,
			wantID: "t2", wantField: "date",
		},
		{
			name:   "non numeric value",
			input:  `[{"id":"t3","type":"expense","value":"ten","date":"2026-10-01"}]`,
			wantID: "t3", wantField: "value",
		},
		{
			name:   "missing value uses index",
			input:  `[{"id":"ok","type":"income","value":1,"date":"2026-10-01"},{"type":"income","date":"2026-10-01"}]`,
			wantID: "#1", wantField: "value",
		},
		{
			name:   "unknown type",
			input:  `[{"id":"t4","type":"transfer","value":1,"date":"2026-10-01"}]`,
			wantID: "t4", wantField: "type",
		},
		{
			name:   "zero installments",
			input:  `[{"id":"t5","type":"expense","value":1,"date":"2026-10-01","installment_charge":{"installments_count":0}}]`,
			wantID: "t5", wantField: "installments_count",
		},
		{
			name:   "bad purchase date",
			input:  `[{"id":"t6","type":"expense","value":1,"date":"2026-10-01","installment_charge":{"purchase_date":"soon"}}]`,
			wantID: "t6", wantField: "purchase_date",
		},
		{
			name:   "scalar tags",
			input:  `[{"id":"t7","type":"expense","value":1,"date":"2026-10-01","tags":"food"}]`,
			wantID: "t7", wantField: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrMalformedTransaction))

			var malformed *common.MalformedTransactionError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantID, malformed.ID)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestDecode_NotAList(t *testing.T) {
	_, err := Decode(strings.NewReader(`"hello"`))
	require.Error(t, err)
}

func TestModalityOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		modality string
		want     model.Modality
		count    int
	}{
		{name: "empty single", modality: "", count: 1, want: model.ModalityCash},
		{name: "empty split", modality: "", count: 4, want: model.ModalityInstallment},
		{name: "padded mixed case", modality: " Installment ", count: 1, want: model.ModalityInstallment},
		{name: "explicit wins over count", modality: "CASH", count: 6, want: model.ModalityCash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModalityOrDefault(tt.modality, tt.count))
		})
	}
}
