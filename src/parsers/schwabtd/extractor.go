package schwabtd

import (
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/models"
)

// Extractor covers Charles Schwab and TD Ameritrade 1099-B documents, which
// identify themselves distinctly but share a layout since the merger.
//
// TODO: add row shapes for the Schwab tabular layout (columns separated by
// fixed-width runs, totals row per security). Until then the extractor is
// registered but yields nothing, which the pipeline reports as
// no-transactions-found rather than unsupported-brokerage.
type Extractor struct{}

// NewExtractor creates a new instance of the Schwab/TD Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(text string) ([]models.Transaction, *models.SummaryTotals) {
	logger.L.Debug("SchwabTD Extractor: no row shapes defined, yielding nothing")
	return nil, nil
}
