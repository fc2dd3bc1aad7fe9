package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/model"
)

const (
	incomeNodePrefix  = "income:"
	expenseNodePrefix = "expense:"
)

// BuildMoneyFlow builds the income to expense graph from face values.
// Income nodes are payment methods, expense nodes are categories. Each
// category's spend is split across income sources by their share of
// total income. No links are produced when either side totals zero.
func BuildMoneyFlow(transactions []model.Transaction) (MoneyFlowGraph, error) {
	if err := model.ValidateAll(transactions); err != nil {
		return MoneyFlowGraph{}, err
	}
	return buildMoneyFlow(transactions), nil
}

func buildMoneyFlow(transactions []model.Transaction) MoneyFlowGraph {
	incomeTotals := make(map[string]decimal.Decimal)
	expenseTotals := make(map[string]decimal.Decimal)

	for _, txn := range transactions {
		switch txn.Type {
		case model.TypeIncome:
			source := strings.TrimSpace(txn.PaymentMethod)
			if source == "" {
				source = model.FallbackCategory
			}
			incomeTotals[source] = incomeTotals[source].Add(txn.Value)
		case model.TypeExpense:
			key := txn.CategoryKey()
			expenseTotals[key] = expenseTotals[key].Add(txn.Value)
		}
	}

	incomeNames := sortedKeys(incomeTotals)
	expenseNames := sortedKeys(expenseTotals)

	graph := MoneyFlowGraph{
		Nodes: make([]FlowNode, 0, len(incomeNames)+len(expenseNames)),
		Links: make([]FlowLink, 0),
	}
	for _, name := range incomeNames {
		graph.Nodes = append(graph.Nodes, FlowNode{ID: incomeNodePrefix + name, Name: name, Category: FlowIncome})
	}
	for _, name := range expenseNames {
		graph.Nodes = append(graph.Nodes, FlowNode{ID: expenseNodePrefix + name, Name: name, Category: FlowExpense})
	}

	totalIncome := sum(incomeTotals)
	totalExpenses := sum(expenseTotals)
	if !totalIncome.IsPositive() || !totalExpenses.IsPositive() {
		return graph
	}

	for _, in := range incomeNames {
		inTotal := incomeTotals[in]
		if !inTotal.IsPositive() {
			continue
		}
		for _, out := range expenseNames {
			outTotal := expenseTotals[out]
			if !outTotal.IsPositive() {
				continue
			}
			value := inTotal.Mul(outTotal).Div(totalIncome)
			if !value.IsPositive() {
				continue
			}
			graph.Links = append(graph.Links, FlowLink{
				Source: incomeNodePrefix + in,
				Target: expenseNodePrefix + out,
				Value:  value,
			})
		}
	}

	return graph
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sum(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}
