package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validation errors.
var (
	ErrNilContext = errors.New("context cannot be nil")
	ErrEmptyPath  = errors.New("ledger path cannot be empty")
	ErrNotALedger = errors.New("ledger path is not a regular file")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateLedgerPath checks that path names an existing regular file.
func validateLedgerPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotALedger, path)
	}
	return nil
}
