package model

import (
	"errors"
	"fmt"

	"github.com/Veraticus/cashflow/internal/common"
)

var (
	errZeroDate      = errors.New("date is missing")
	errUnknownType   = errors.New("type must be income or expense")
	errBadCount      = errors.New("installments count must be at least 1")
	errBadModality   = errors.New("modality must be cash or installment")
	errNegativeTotal = errors.New("total amount must not be negative")
)

// Validate checks the canonical invariants every aggregator relies on.
// Failures are reported as *common.MalformedTransactionError.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return common.NewMalformedTransactionError(t.ID, "date", errZeroDate)
	}
	if !t.Type.Valid() {
		return common.NewMalformedTransactionError(t.ID, "type", fmt.Errorf("%w: %q", errUnknownType, t.Type))
	}
	if t.Installment == nil {
		return nil
	}
	switch t.Installment.Modality {
	case ModalityCash, ModalityInstallment:
	default:
		return common.NewMalformedTransactionError(t.ID, "modality",
			fmt.Errorf("%w: %q", errBadModality, t.Installment.Modality))
	}
	if t.Installment.Count < 1 {
		return common.NewMalformedTransactionError(t.ID, "installments_count", errBadCount)
	}
	if t.Installment.TotalAmount.Valid && t.Installment.TotalAmount.Decimal.IsNegative() {
		return common.NewMalformedTransactionError(t.ID, "total_amount", errNegativeTotal)
	}
	return nil
}

// ValidateAll validates every transaction and returns the first failure.
func ValidateAll(transactions []Transaction) error {
	for i := range transactions {
		if err := transactions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
