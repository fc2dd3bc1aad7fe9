package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	// TypeIncome marks money received.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money spent.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one the engine understands.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Modality describes how a card charge is billed.
type Modality string

const (
	// ModalityCash is a charge billed in full on one invoice.
	ModalityCash Modality = "cash"
	// ModalityInstallment is a charge split across several monthly invoices.
	ModalityInstallment Modality = "installment"
)

// PaymentMethodCreditCard is the canonical payment method for card charges.
const PaymentMethodCreditCard = "credit_card"

// CategoryTagType is the tag type that carries a transaction's category.
const CategoryTagType = "categoria"

// FallbackCategory is used when a transaction carries no category at all.
const FallbackCategory = "Outros"

// creditCardAliases are payment method spellings seen in exported ledgers.
var creditCardAliases = map[string]bool{
	PaymentMethodCreditCard: true,
	"credit":                true,
	"credit card":           true,
	"cartao_credito":        true,
}

// Tag is a single typed label attached to a transaction.
type Tag struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Card identifies the credit card a charge was made on.
type Card struct {
	ID    string `json:"id"`
	Last4 string `json:"last4"`
}

// InstallmentInfo is the canonical view of a credit card charge.
// TotalAmount is invalid when the source did not carry one.
type InstallmentInfo struct {
	PurchaseDate time.Time           `json:"purchase_date"`
	TotalAmount  decimal.NullDecimal `json:"total_amount"`
	Card         Card                `json:"card"`
	Modality     Modality            `json:"modality"`
	Count        int                 `json:"installments_count"`
}

// Transaction represents a single financial transaction after normalization.
type Transaction struct {
	Date          time.Time        `json:"date"`
	Value         decimal.Decimal  `json:"value"`
	Installment   *InstallmentInfo `json:"installment,omitempty"`
	ID            string           `json:"id"`
	Type          TransactionType  `json:"type"`
	PaymentMethod string           `json:"payment_method"`
	Category      string           `json:"category,omitempty"`
	Tags          []Tag            `json:"tags,omitempty"`
}

// IsCreditCard reports whether the transaction was charged to a credit card.
func (t Transaction) IsCreditCard() bool {
	if creditCardAliases[strings.ToLower(strings.TrimSpace(t.PaymentMethod))] {
		return true
	}
	return t.Installment != nil && t.Installment.Card.ID != ""
}

// IsInstallmentPurchase reports whether the transaction is split across
// more than one monthly invoice.
func (t Transaction) IsInstallmentPurchase() bool {
	return t.Installment != nil &&
		t.Installment.Modality == ModalityInstallment &&
		t.Installment.Count > 1
}

// PurchaseDate returns the date installments are counted from.
func (t Transaction) PurchaseDate() time.Time {
	if t.Installment != nil && !t.Installment.PurchaseDate.IsZero() {
		return t.Installment.PurchaseDate
	}
	return t.Date
}

// InstallmentTotal returns the amount being split and whether it came from
// the charge itself. When the charge carries no total the face value is used.
func (t Transaction) InstallmentTotal() (decimal.Decimal, bool) {
	if t.Installment != nil && t.Installment.TotalAmount.Valid {
		return t.Installment.TotalAmount.Decimal, true
	}
	return t.Value, false
}

// PerInstallment returns the amortized monthly value of an installment
// purchase. For anything else it returns the face value.
func (t Transaction) PerInstallment() decimal.Decimal {
	if !t.IsInstallmentPurchase() {
		return t.Value
	}
	total, _ := t.InstallmentTotal()
	return total.Div(decimal.NewFromInt(int64(t.Installment.Count)))
}

// CategoryKey resolves the category a transaction is grouped under: the
// explicit category, then the first "categoria" tag, then FallbackCategory.
func (t Transaction) CategoryKey() string {
	if c := strings.TrimSpace(t.Category); c != "" {
		return c
	}
	for _, tag := range t.Tags {
		if strings.EqualFold(tag.Type, CategoryTagType) && strings.TrimSpace(tag.Name) != "" {
			return strings.TrimSpace(tag.Name)
		}
	}
	return FallbackCategory
}
