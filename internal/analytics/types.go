// Package analytics turns a list of transactions into the aggregates a
// finance dashboard needs: period summary, trailing monthly series,
// category breakdown, money-flow graph and weekly spending heatmap.
//
// Every function here is pure. Installment purchases are attributed to the
// months their installments fall due, and figures supplied by an external
// billing service are added on top of what is derived from transactions.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/model"
)

// TrailingMonths is the fixed length of the monthly series.
const TrailingMonths = 6

// UncategorizedInvoice names external breakdown entries that carry no category.
const UncategorizedInvoice = "Sem Categoria"

// WeekdayLabels are the heatmap row labels, Sunday first.
var WeekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FlowCategory tells which side of the money-flow graph a node sits on.
type FlowCategory string

const (
	// FlowIncome nodes are income sources (payment methods).
	FlowIncome FlowCategory = "income"
	// FlowExpense nodes are spending categories.
	FlowExpense FlowCategory = "expense"
)

// Summary is the balance of one reporting period.
type Summary struct {
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthlyBucket holds one calendar month of the trailing series.
type MonthlyBucket struct {
	MonthKey string          `json:"monthKey"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategoryTotal is one slice of the category breakdown. Amount is always positive.
type CategoryTotal struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Amount decimal.Decimal `json:"amount"`
}

// FlowNode is one side of the money-flow graph.
type FlowNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category FlowCategory `json:"category"`
}

// FlowLink carries money from an income node to an expense node.
type FlowLink struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

// MoneyFlowGraph is the bipartite income to expense graph.
type MoneyFlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// WeeklyHeatmap holds spending per weekday (rows) and category (columns).
type WeeklyHeatmap struct {
	Categories []string            `json:"categories"`
	Days       []string            `json:"days"`
	Data       [][]decimal.Decimal `json:"data"`
}

// Result bundles every aggregate computed for one dashboard request.
type Result struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Period      *model.ReportingPeriod `json:"period,omitempty"`
	MoneyFlow   MoneyFlowGraph         `json:"moneyFlow"`
	Heatmap     WeeklyHeatmap          `json:"heatmap"`
	Monthly     []MonthlyBucket        `json:"monthly"`
	Categories  []CategoryTotal        `json:"categories"`
	Summary     Summary                `json:"summary"`
}

// NodeNames maps node IDs to display names.
func (g MoneyFlowGraph) NodeNames() map[string]string {
	names := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.ID] = n.Name
	}
	return names
}
