package model

import "github.com/shopspring/decimal"

// CategoryInvoice is one entry of the billing service's per-category
// breakdown of card invoice spend.
type CategoryInvoice struct {
	Name  string          `json:"name" yaml:"name"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// MonthlyInvoice is the billing service's invoice total for one month.
type MonthlyInvoice struct {
	Total decimal.Decimal `json:"total" yaml:"total"`
	Year  int             `json:"year" yaml:"year"`
	Month int             `json:"month" yaml:"month"` // 1-12
}

// InvoiceFigures bundles everything the billing collaborator can supply.
// Every figure is additive; none replaces raw transactions.
type InvoiceFigures struct {
	Total      *decimal.Decimal  `json:"total,omitempty"`
	Categories []CategoryInvoice `json:"categories,omitempty"`
	Months     []MonthlyInvoice  `json:"months,omitempty"`
}
