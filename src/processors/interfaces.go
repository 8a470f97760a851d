package processors

import (
	"github.com/username/gainscan/backend/src/models"
)

// Aggregator defines the interface for computing summary totals from an
// extracted transaction list.
type Aggregator interface {
	Aggregate(transactions []models.Transaction) models.SummaryTotals
}
