package fidelity

import (
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/models"
)

// Extractor covers Fidelity 1099-B documents. No row shapes are defined yet;
// the extractor is registered so the capability gap surfaces as
// no-transactions-found rather than unsupported-brokerage.
type Extractor struct{}

// NewExtractor creates a new instance of the Fidelity Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(text string) ([]models.Transaction, *models.SummaryTotals) {
	logger.L.Debug("Fidelity Extractor: no row shapes defined, yielding nothing")
	return nil, nil
}
