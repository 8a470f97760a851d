package parsers

import (
	"github.com/username/gainscan/backend/src/models"
)

// Extractor pulls transaction rows out of one brokerage's 1099-B text layout.
//
// Extractors never fail: heuristic scanning over free text either yields rows
// or it does not, and an empty yield means the document carried no shape the
// extractor recognizes. Summary-style layouts additionally return the
// document's own authoritative totals; itemized layouts return nil totals and
// have them recomputed downstream.
type Extractor interface {
	Extract(text string) ([]models.Transaction, *models.SummaryTotals)
}
