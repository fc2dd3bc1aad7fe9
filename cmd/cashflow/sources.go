package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/cashflow/internal/cli"
	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/config"
	"github.com/Veraticus/cashflow/internal/ingest"
	"github.com/Veraticus/cashflow/internal/model"
	"github.com/Veraticus/cashflow/internal/ofx"
	"github.com/Veraticus/cashflow/internal/storage"
)

// maxConcurrentLoads bounds how many source files are read at once.
const maxConcurrentLoads = 4

// expandSources resolves glob patterns into a sorted, duplicate-free file list.
func expandSources(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, statErr := os.Stat(pattern); statErr == nil {
				matches = []string{pattern}
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// loadSources reads every file concurrently and merges the results in file
// order. When two sources carry the same transaction id the first source wins.
func loadSources(ctx context.Context, files []string, progressOut io.Writer) ([]model.Transaction, error) {
	progress := cli.NewLoadProgress(progressOut, len(files))
	defer progress.Finish()

	loaded := make([][]model.Transaction, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			txns, err := loadSource(ctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			loaded[i] = txns
			progress.Loaded(filepath.Base(file))
			slog.Debug("Loaded source", "file", file, "transactions", len(txns))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeUnique(loaded), nil
}

// mergeUnique concatenates batches in order. A transaction whose id was
// already loaded from an earlier source is dropped; records without an id
// and repeats inside one source are always kept.
func mergeUnique(batches [][]model.Transaction) []model.Transaction {
	firstSource := make(map[string]int)
	var merged []model.Transaction
	duplicates := 0

	for source, batch := range batches {
		for _, txn := range batch {
			if txn.ID == "" {
				merged = append(merged, txn)
				continue
			}
			if seenIn, ok := firstSource[txn.ID]; ok && seenIn != source {
				duplicates++
				continue
			}
			firstSource[txn.ID] = source
			merged = append(merged, txn)
		}
	}

	if duplicates > 0 {
		common.LogDebug("Dropped transactions already loaded from another source", common.Fields{"count": duplicates})
	}
	return merged
}

// loadSource picks a reader by file extension.
func loadSource(ctx context.Context, path string) ([]model.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".ofx", ".qfx":
		return loadOFX(ctx, path)
	case ".db", ".sqlite", ".sqlite3":
		return loadLedger(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedSource, filepath.Ext(path))
	}
}

func loadJSON(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "file", path, "error", closeErr)
		}
	}()

	return ingest.Decode(f)
}

func loadOFX(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "file", path, "error", closeErr)
		}
	}()

	return ofx.NewParser().ParseFile(ctx, f)
}

func loadLedger(ctx context.Context, path string) ([]model.Transaction, error) {
	ledger, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := ledger.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "file", path, "error", closeErr)
		}
	}()

	return ledger.ListTransactions(ctx)
}
