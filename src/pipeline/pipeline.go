package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/models"
	"github.com/username/gainscan/backend/src/parsers"
	"github.com/username/gainscan/backend/src/processors"
)

// state is one step of an extraction run. Runs only move forward; done and
// failed are terminal.
type state int

const (
	stateIdentify state = iota
	stateExtract
	stateAggregate
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdentify:
		return "IDENTIFY"
	case stateExtract:
		return "EXTRACT"
	case stateAggregate:
		return "AGGREGATE"
	case stateDone:
		return "DONE"
	case stateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Pipeline turns the extracted text of a consolidated 1099-B into an
// ExtractionResult. It holds no per-run state, so a single instance can be
// shared by concurrent callers.
type Pipeline struct {
	log        *slog.Logger
	aggregator processors.Aggregator
}

// New builds a pipeline reporting diagnostics to log. A nil log disables
// diagnostics; it never changes what Run returns.
func New(log *slog.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		log:        log,
		aggregator: processors.NewSummaryProcessor(),
	}
}

// Run walks IDENTIFY -> EXTRACT -> AGGREGATE over the document text. It
// always returns a well-formed result: failures come back as Success=false
// with a reason in Error, never as a panic or a half-filled struct.
func (p *Pipeline) Run(text string) models.ExtractionResult {
	start := time.Now()

	result := models.ExtractionResult{
		Brokerage:    models.BrokerageUnknown,
		Transactions: []models.Transaction{},
	}

	var (
		transactions []models.Transaction
		override     *models.SummaryTotals
		extractor    parsers.Extractor
	)

	current := stateIdentify
	for current != stateDone && current != stateFailed {
		next := current

		switch current {
		case stateIdentify:
			tag, signature := parsers.IdentifyBrokerage(text)
			result.Brokerage = tag
			result.DocumentID = fmt.Sprintf("%s-1099B", tag)
			p.log.Info("brokerage identified", "brokerage", tag, "signature", signature)

			ex, err := parsers.GetExtractor(tag)
			if err != nil {
				result.Error = fmt.Sprintf("unsupported brokerage: %s", tag)
				next = stateFailed
				break
			}
			extractor = ex
			next = stateExtract

		case stateExtract:
			transactions, override = extractor.Extract(text)
			if len(transactions) == 0 && override == nil {
				// Zero yield is a reported failure, never substituted rows.
				result.Error = fmt.Sprintf("no transactions found for brokerage: %s", result.Brokerage)
				next = stateFailed
				break
			}
			if transactions == nil {
				transactions = []models.Transaction{}
			}
			result.Transactions = transactions
			next = stateAggregate

		case stateAggregate:
			if override != nil {
				// Summary-style documents carry their own authoritative
				// totals, already net of adjustments we cannot see.
				result.SummaryTotals = *override
			} else {
				result.SummaryTotals = p.aggregator.Aggregate(transactions)
			}
			next = stateDone
		}

		p.log.Debug("pipeline transition", "from", current.String(), "to", next.String())
		current = next
	}

	result.AccountNumber, result.TaxpayerName = parsers.ScanDocumentMetadata(text)
	result.Success = current == stateDone

	p.log.Info("pipeline finished",
		"brokerage", result.Brokerage,
		"success", result.Success,
		"transactions", len(result.Transactions),
		"duration", time.Since(start).String())
	return result
}
