package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

// Engine runs every aggregator over one transaction set.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock that anchors the trailing monthly window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine that uses the wall clock unless configured otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is the input of one dashboard computation. Invoices holds the
// optional figures from the billing service.
type Request struct {
	Period       *model.ReportingPeriod
	Invoices     model.InvoiceFigures
	Transactions []model.Transaction
}

// Analyze validates the request once and fans out to every aggregator.
// Each aggregator receives the full, unfiltered transaction list and does
// its own period handling; filtering here would cut installment purchases
// made before the period.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := validateInput(req.Transactions, req.Period); err != nil {
		return nil, err
	}

	now := e.now()
	result := &Result{
		GeneratedAt: now,
		Period:      req.Period,
	}

	txns := req.Transactions
	g, ctx := errgroup.WithContext(ctx)

	run := func(compute func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			compute()
			return nil
		})
	}

	run(func() { result.Summary = summarize(txns, req.Period, req.Invoices.Total) })
	run(func() { result.Monthly = monthlySeries(txns, now, req.Invoices.Months) })
	run(func() { result.Categories = byCategory(txns, req.Period, req.Invoices.Categories) })
	run(func() { result.MoneyFlow = buildMoneyFlow(txns) })
	run(func() { result.Heatmap = buildHeatmap(txns, req.Period) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	common.LogDebug("analytics computed", common.Fields{
		"transactions": len(txns),
		"categories":   len(result.Categories),
		"flow_links":   len(result.MoneyFlow.Links),
	})

	return result, nil
}
