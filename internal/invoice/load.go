// Package invoice reads the figures a billing service exports for card
// invoices. They are handed to the analytics engine unchanged and are
// always added on top of what transactions produce.
package invoice

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/cashflow/internal/model"
)

// ErrInvalidFigures is returned when an invoice file cannot be used.
var ErrInvalidFigures = errors.New("invalid invoice figures")

type categoryYAML struct {
	Name  string `yaml:"name"`
	Total string `yaml:"total"`
}

type monthYAML struct {
	Total string `yaml:"total"`
	Year  int    `yaml:"year"`
	Month int    `yaml:"month"`
}

type figuresYAML struct {
	Total      *string        `yaml:"total"`
	Categories []categoryYAML `yaml:"categories"`
	Months     []monthYAML    `yaml:"months"`
}

// Load parses invoice figures from YAML. JSON input is accepted as well
// since it is valid YAML. Amounts may be numbers or numeric strings.
func Load(r io.Reader) (model.InvoiceFigures, error) {
	var in figuresYAML
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return model.InvoiceFigures{}, nil
		}
		return model.InvoiceFigures{}, fmt.Errorf("%w: %v", ErrInvalidFigures, err)
	}

	var out model.InvoiceFigures

	if in.Total != nil && strings.TrimSpace(*in.Total) != "" {
		total, err := parseAmount("total", *in.Total)
		if err != nil {
			return model.InvoiceFigures{}, err
		}
		out.Total = &total
	}

	for i, c := range in.Categories {
		total, err := parseAmount(fmt.Sprintf("categories[%d].total", i), c.Total)
		if err != nil {
			return model.InvoiceFigures{}, err
		}
		out.Categories = append(out.Categories, model.CategoryInvoice{Name: c.Name, Total: total})
	}

	for i, m := range in.Months {
		if m.Month < 1 || m.Month > 12 {
			return model.InvoiceFigures{}, fmt.Errorf("%w: months[%d].month must be 1-12, got %d", ErrInvalidFigures, i, m.Month)
		}
		if m.Year <= 0 {
			return model.InvoiceFigures{}, fmt.Errorf("%w: months[%d].year is required", ErrInvalidFigures, i)
		}
		total, err := parseAmount(fmt.Sprintf("months[%d].total", i), m.Total)
		if err != nil {
			return model.InvoiceFigures{}, err
		}
		out.Months = append(out.Months, model.MonthlyInvoice{Year: m.Year, Month: m.Month, Total: total})
	}

	return out, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidFigures, field, err)
	}
	return amount, nil
}
