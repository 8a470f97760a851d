package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/gainscan/backend/src/models"
)

func TestAggregate(t *testing.T) {
	transactions := []models.Transaction{
		{Proceeds: 1000.50, CostBasis: 800.25, NetGainLoss: 200.25, WashSaleLoss: 10, IsLongTerm: false},
		{Proceeds: 2000, CostBasis: 1500, NetGainLoss: 500, WashSaleLoss: 0, IsLongTerm: true},
		{Proceeds: 100.10, CostBasis: 150.35, NetGainLoss: -50.25, WashSaleLoss: 5.50, IsLongTerm: false},
	}

	totals := NewSummaryProcessor().Aggregate(transactions)

	assert.Equal(t, 3100.60, totals.TotalProceeds)
	assert.Equal(t, 2450.60, totals.TotalCostBasis)
	assert.Equal(t, 650.0, totals.TotalNetGainLoss)
	assert.Equal(t, 15.50, totals.TotalWashSaleLoss)

	assert.Equal(t, 1100.60, totals.ShortTermProceeds)
	assert.Equal(t, 950.60, totals.ShortTermCostBasis)
	assert.Equal(t, 150.0, totals.ShortTermNetGainLoss)

	assert.Equal(t, 2000.0, totals.LongTermProceeds)
	assert.Equal(t, 1500.0, totals.LongTermCostBasis)
	assert.Equal(t, 500.0, totals.LongTermNetGainLoss)
}

// The holding-period subsets partition the list, so each total must equal
// the sum of its two subsets.
func TestAggregate_SubsetsSumToTotals(t *testing.T) {
	transactions := []models.Transaction{
		{Proceeds: 123.45, CostBasis: 100.10, NetGainLoss: 23.35, IsLongTerm: false},
		{Proceeds: 678.90, CostBasis: 700.01, NetGainLoss: -21.11, IsLongTerm: true},
		{Proceeds: 55.55, CostBasis: 44.44, NetGainLoss: 11.11, IsLongTerm: true},
		{Proceeds: 9.99, CostBasis: 19.99, NetGainLoss: -10, IsLongTerm: false},
	}

	totals := NewSummaryProcessor().Aggregate(transactions)

	assert.InDelta(t, totals.TotalProceeds, totals.ShortTermProceeds+totals.LongTermProceeds, 1e-9)
	assert.InDelta(t, totals.TotalCostBasis, totals.ShortTermCostBasis+totals.LongTermCostBasis, 1e-9)
	assert.InDelta(t, totals.TotalNetGainLoss, totals.ShortTermNetGainLoss+totals.LongTermNetGainLoss, 1e-9)
}

func TestAggregate_RoundsToCents(t *testing.T) {
	transactions := []models.Transaction{
		{Proceeds: 0.1, IsLongTerm: false},
		{Proceeds: 0.2, IsLongTerm: false},
		{Proceeds: 0.1, IsLongTerm: false},
	}

	totals := NewSummaryProcessor().Aggregate(transactions)

	assert.Equal(t, 0.4, totals.TotalProceeds)
	assert.Equal(t, 0.4, totals.ShortTermProceeds)
}

func TestAggregate_Empty(t *testing.T) {
	totals := NewSummaryProcessor().Aggregate(nil)

	assert.Equal(t, models.SummaryTotals{}, totals)
}
