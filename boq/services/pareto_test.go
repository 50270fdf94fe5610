package services

import (
	"testing"

	"boq-analysis-backend/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankableItems(t *testing.T, costs ...string) []*models.LineItem {
	t.Helper()
	items := make([]*models.LineItem, 0, len(costs))
	for i, cost := range costs {
		items = append(items, &models.LineItem{
			ItemCode:  string(rune('A' + i)),
			TotalCost: newDecimal(t, cost),
		})
	}
	return items
}

func TestRankByCostOrdersAndAccumulates(t *testing.T) {
	items := rankableItems(t, "100", "400", "300", "200")

	total := RankByCost(items, DefaultParetoThreshold)

	require.True(t, total.Equal(newDecimal(t, "1000")))

	// Sorted descending by cost
	assert.Equal(t, "B", items[0].ItemCode)
	assert.Equal(t, "C", items[1].ItemCode)
	assert.Equal(t, "D", items[2].ItemCode)
	assert.Equal(t, "A", items[3].ItemCode)

	// Cumulative percentages: 40, 70, 90, 100
	assert.True(t, items[0].CumulativePercentage.Equal(newDecimal(t, "40")))
	assert.True(t, items[1].CumulativePercentage.Equal(newDecimal(t, "70")))
	assert.True(t, items[2].CumulativePercentage.Equal(newDecimal(t, "90")))
	assert.True(t, items[3].CumulativePercentage.Equal(newDecimal(t, "100")))

	// Critical flags: D starts at 70% and crosses the threshold, so it is
	// still critical; A starts at 90% and is not.
	assert.True(t, items[0].IsParetoCritical)
	assert.True(t, items[1].IsParetoCritical)
	assert.True(t, items[2].IsParetoCritical)
	assert.False(t, items[3].IsParetoCritical)

	for i, item := range items {
		assert.Equal(t, i+1, item.RankOrder)
	}
}

func TestRankByCostCumulativeMonotonicEndsAtHundred(t *testing.T) {
	items := rankableItems(t, "17.35", "402.11", "8.88", "250", "91.07", "33.33")

	RankByCost(items, DefaultParetoThreshold)

	previous := decimal.Zero
	for _, item := range items {
		assert.True(t, item.CumulativePercentage.GreaterThanOrEqual(previous),
			"cumulative percentage must never decrease")
		previous = item.CumulativePercentage
	}
	assert.True(t, items[len(items)-1].CumulativePercentage.Equal(newDecimal(t, "100")),
		"last cumulative percentage must be exactly 100, got %s", items[len(items)-1].CumulativePercentage)
}

func TestRankByCostStableTieBreak(t *testing.T) {
	items := rankableItems(t, "500", "500", "500")

	RankByCost(items, DefaultParetoThreshold)

	// Equal costs keep their input order
	assert.Equal(t, "A", items[0].ItemCode)
	assert.Equal(t, "B", items[1].ItemCode)
	assert.Equal(t, "C", items[2].ItemCode)
}

func TestRankByCostInclusiveThresholdBoundary(t *testing.T) {
	// 80 and 20: the first item lands exactly on 80% and must be critical.
	items := rankableItems(t, "80", "20")

	RankByCost(items, DefaultParetoThreshold)

	assert.True(t, items[0].CumulativePercentage.Equal(newDecimal(t, "80")))
	assert.True(t, items[0].IsParetoCritical)
	assert.False(t, items[1].IsParetoCritical)
}

func TestRankByCostZeroTotal(t *testing.T) {
	items := rankableItems(t, "0", "0")

	total := RankByCost(items, DefaultParetoThreshold)

	assert.True(t, total.IsZero())
	for _, item := range items {
		assert.True(t, item.CumulativeCost.IsZero())
		assert.True(t, item.CumulativePercentage.IsZero())
		assert.False(t, item.IsParetoCritical)
		assert.Equal(t, 0, item.RankOrder)
	}
}

func TestRankByCostSingleItemIsCritical(t *testing.T) {
	items := rankableItems(t, "123.45")

	RankByCost(items, DefaultParetoThreshold)

	// A lone item carries the whole cost and crosses the threshold itself
	assert.True(t, items[0].CumulativePercentage.Equal(newDecimal(t, "100")))
	assert.True(t, items[0].IsParetoCritical)
}
