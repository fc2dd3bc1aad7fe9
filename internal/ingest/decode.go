// Package ingest converts raw transaction exports into canonical
// model.Transaction values. All wire-format quirks (number-or-string
// amounts, map-or-list tags, legacy top-level charge fields) are resolved
// here so the analytics package only ever sees one shape.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

var (
	errMissingValue = errors.New("value is missing")
	errMissingDate  = errors.New("date is missing")
	errBadDate      = errors.New("unrecognized date format")
	errBadTags      = errors.New("tags must be an object or a list")
	errNotArray     = errors.New("expected a list of transactions")
)

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type rawCharge struct {
	InstallmentsCount *int            `json:"installments_count"`
	TotalAmount       json.RawMessage `json:"total_amount"`
	Modality          string          `json:"modality"`
	PurchaseDate      string          `json:"purchase_date"`
	Card              model.Card      `json:"card"`
}

type rawTransaction struct {
	Category          *string         `json:"category"`
	InstallmentCharge *rawCharge      `json:"installment_charge"`
	InstallmentsCount *int            `json:"installments_count"`
	Value             json.RawMessage `json:"value"`
	Tags              json.RawMessage `json:"tags"`
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Date              string          `json:"date"`
	PaymentMethod     string          `json:"payment_method"`
	Modality          string          `json:"modality"`
}

type envelope struct {
	Transactions []json.RawMessage `json:"transactions"`
}

// Decode reads a JSON list of raw transactions, or an object holding
// that list under "transactions", and returns them in canonical form.
// The first malformed transaction aborts decoding.
func Decode(r io.Reader) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	items, err := splitItems(data)
	if err != nil {
		return nil, err
	}

	transactions := make([]model.Transaction, 0, len(items))
	for i, item := range items {
		txn, err := decodeOne(i, item)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, nil
}

func splitItems(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to parse transactions: %w", err)
		}
		return items, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("failed to parse transactions: %w", err)
		}
		return env.Transactions, nil
	default:
		return nil, errNotArray
	}
}

func decodeOne(index int, item json.RawMessage) (model.Transaction, error) {
	var raw rawTransaction
	if err := json.Unmarshal(item, &raw); err != nil {
		return model.Transaction{}, common.NewMalformedTransactionError(fmt.Sprintf("#%d", index), "record", err)
	}

	label := raw.ID
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}
	fail := func(field string, err error) (model.Transaction, error) {
		return model.Transaction{}, common.NewMalformedTransactionError(label, field, err)
	}

	value, ok, err := parseAmount(raw.Value)
	if err != nil {
		return fail("value", err)
	}
	if !ok {
		return fail("value", errMissingValue)
	}

	if strings.TrimSpace(raw.Date) == "" {
		return fail("date", errMissingDate)
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return fail("date", err)
	}

	tags, err := ParseTags(raw.Tags)
	if err != nil {
		return fail("tags", err)
	}

	txn := model.Transaction{
		ID:            raw.ID,
		Type:          model.TransactionType(strings.ToLower(strings.TrimSpace(raw.Type))),
		Value:         value,
		Date:          date,
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
		Tags:          tags,
	}
	if raw.Category != nil {
		txn.Category = strings.TrimSpace(*raw.Category)
	}

	info, field, err := installmentInfo(raw, date)
	if err != nil {
		return fail(field, err)
	}
	txn.Installment = info

	if err := txn.Validate(); err != nil {
		var malformed *common.MalformedTransactionError
		if errors.As(err, &malformed) {
			return fail(malformed.Field, malformed.Err)
		}
		return model.Transaction{}, err
	}
	return txn, nil
}

// installmentInfo builds the canonical charge from the nested object, or
// from the legacy top-level fields when the nested object is absent.
func installmentInfo(raw rawTransaction, date time.Time) (*model.InstallmentInfo, string, error) {
	if raw.InstallmentCharge == nil {
		if raw.Modality == "" && raw.InstallmentsCount == nil {
			return nil, "", nil
		}
		count := countOrDefault(raw.InstallmentsCount)
		return &model.InstallmentInfo{
			Modality:     ModalityOrDefault(raw.Modality, count),
			Count:        count,
			PurchaseDate: date,
		}, "", nil
	}

	charge := raw.InstallmentCharge
	count := countOrDefault(charge.InstallmentsCount)
	info := &model.InstallmentInfo{
		Modality:     ModalityOrDefault(charge.Modality, count),
		Count:        count,
		PurchaseDate: date,
		Card:         charge.Card,
	}

	if strings.TrimSpace(charge.PurchaseDate) != "" {
		purchase, err := ParseDate(charge.PurchaseDate)
		if err != nil {
			return nil, "purchase_date", err
		}
		info.PurchaseDate = purchase
	}

	total, ok, err := parseAmount(charge.TotalAmount)
	switch {
	case err != nil:
		common.LogDebug("ignoring unparseable installment total", common.Fields{
			"id":    raw.ID,
			"error": err.Error(),
		})
	case ok:
		info.TotalAmount = decimal.NewNullDecimal(total)
	}

	return info, "", nil
}

func countOrDefault(count *int) int {
	if count == nil {
		return 1
	}
	return *count
}

// ModalityOrDefault normalizes a modality spelling. An empty modality is
// inferred from the installment count.
func ModalityOrDefault(modality string, count int) model.Modality {
	m := model.Modality(strings.ToLower(strings.TrimSpace(modality)))
	if m != "" {
		return m
	}
	if count > 1 {
		return model.ModalityInstallment
	}
	return model.ModalityCash
}

// parseAmount accepts a JSON number or a numeric string. ok is false when
// the field is absent or null.
func parseAmount(raw json.RawMessage) (amount decimal.Decimal, ok bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, false, nil
	}
	if err := amount.UnmarshalJSON(trimmed); err != nil {
		return decimal.Zero, false, err
	}
	return amount, true, nil
}

// ParseDate accepts RFC3339, RFC3339 without a zone (read as UTC) and
// YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDate, s)
}

// ParseTags resolves both tag encodings into the canonical list. The map
// form ({"categoria": [{"name": "Mercado"}]}) is flattened in key order.
func ParseTags(raw []byte) ([]model.Tag, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var tags []model.Tag
		if err := json.Unmarshal(trimmed, &tags); err != nil {
			return nil, err
		}
		return tags, nil
	case '{':
		var byType map[string][]struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &byType); err != nil {
			return nil, err
		}
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)

		tags := make([]model.Tag, 0, len(byType))
		for _, t := range types {
			for _, entry := range byType[t] {
				tags = append(tags, model.Tag{Type: t, Name: entry.Name})
			}
		}
		return tags, nil
	default:
		return nil, errBadTags
	}
}
