package services

import (
	"sort"

	"boq-analysis-backend/db/models"

	"github.com/shopspring/decimal"
)

// DefaultParetoThreshold is the cumulative-percentage cutoff below which an
// item counts as Pareto-critical. Per-level WBS aggregation re-applies the
// same threshold against its own subtotal.
var DefaultParetoThreshold = decimal.NewFromInt(80)

var oneHundred = decimal.NewFromInt(100)

// CostRanked is anything the Pareto ranker can order and annotate.
type CostRanked interface {
	CostAmount() decimal.Decimal
	Ranking() *models.ParetoRanking
}

// RankByCost sorts items by cost descending and fills in cumulative cost,
// cumulative percentage and the Pareto-critical flag. The sort is stable, so
// items with equal cost keep their input order. Returns the sequence total.
//
// When the total is not positive every computed field is left at zero/false;
// this guards the divide by zero without erroring on degenerate input.
func RankByCost[T CostRanked](items []T, threshold decimal.Decimal) decimal.Decimal {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CostAmount().GreaterThan(items[j].CostAmount())
	})

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.CostAmount())
	}

	if total.LessThanOrEqual(decimal.Zero) {
		for _, item := range items {
			ranking := item.Ranking()
			ranking.CumulativeCost = decimal.Zero
			ranking.CumulativePercentage = decimal.Zero
			ranking.IsParetoCritical = false
			ranking.RankOrder = 0
		}
		return total
	}

	cumulative := decimal.Zero
	for i, item := range items {
		// An item is critical when it starts inside the threshold, so the
		// item that crosses the boundary is still included. One that lands
		// exactly on the threshold is therefore critical; the next is not.
		previousPercentage := cumulative.Div(total).Mul(oneHundred)
		cumulative = cumulative.Add(item.CostAmount())

		ranking := item.Ranking()
		ranking.CumulativeCost = cumulative
		ranking.CumulativePercentage = cumulative.Div(total).Mul(oneHundred)
		ranking.IsParetoCritical = previousPercentage.LessThan(threshold)
		ranking.RankOrder = i + 1
	}

	return total
}
