package processors

import (
	"github.com/username/gainscan/backend/src/models"
	"github.com/username/gainscan/backend/src/utils"
)

// SummaryProcessor recomputes aggregate totals from a final transaction list.
// Totals are never accumulated while rows are still being extracted; the
// list itself is the single source of truth, so the aggregates cannot
// diverge from it.
type SummaryProcessor struct{}

func NewSummaryProcessor() *SummaryProcessor {
	return &SummaryProcessor{}
}

// Aggregate sums the monetary fields over the whole list and over the two
// holding-period subsets, which partition it. Every figure is rounded to
// cents once, at the end.
func (p *SummaryProcessor) Aggregate(transactions []models.Transaction) models.SummaryTotals {
	var totals models.SummaryTotals
	for _, tx := range transactions {
		totals.TotalProceeds += tx.Proceeds
		totals.TotalCostBasis += tx.CostBasis
		totals.TotalNetGainLoss += tx.NetGainLoss
		totals.TotalWashSaleLoss += tx.WashSaleLoss

		if tx.IsLongTerm {
			totals.LongTermProceeds += tx.Proceeds
			totals.LongTermCostBasis += tx.CostBasis
			totals.LongTermNetGainLoss += tx.NetGainLoss
		} else {
			totals.ShortTermProceeds += tx.Proceeds
			totals.ShortTermCostBasis += tx.CostBasis
			totals.ShortTermNetGainLoss += tx.NetGainLoss
		}
	}
	return roundToCents(totals)
}

func roundToCents(t models.SummaryTotals) models.SummaryTotals {
	t.TotalProceeds = utils.RoundFloat(t.TotalProceeds, 2)
	t.TotalCostBasis = utils.RoundFloat(t.TotalCostBasis, 2)
	t.TotalNetGainLoss = utils.RoundFloat(t.TotalNetGainLoss, 2)
	t.TotalWashSaleLoss = utils.RoundFloat(t.TotalWashSaleLoss, 2)
	t.ShortTermProceeds = utils.RoundFloat(t.ShortTermProceeds, 2)
	t.ShortTermCostBasis = utils.RoundFloat(t.ShortTermCostBasis, 2)
	t.ShortTermNetGainLoss = utils.RoundFloat(t.ShortTermNetGainLoss, 2)
	t.LongTermProceeds = utils.RoundFloat(t.LongTermProceeds, 2)
	t.LongTermCostBasis = utils.RoundFloat(t.LongTermCostBasis, 2)
	t.LongTermNetGainLoss = utils.RoundFloat(t.LongTermNetGainLoss, 2)
	return t
}
