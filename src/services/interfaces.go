// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/gainscan/backend/src/model"
)

// Define common service errors
var (
	ErrPageExtraction = errors.New("page text extraction failed")
	ErrStoringRun     = errors.New("failed to store extraction run")
)

// PageTextExtractor turns an uploaded PDF into per-page text. Implementations
// talk to the external extraction collaborator; this service never opens PDF
// bytes itself.
type PageTextExtractor interface {
	ExtractPages(ctx context.Context, filename string, pdf io.Reader) ([]string, error)
}

// ExtractionService defines the interface for the core document extraction logic.
type ExtractionService interface {
	ExtractFromText(sourceName, text string) (*model.ExtractionRun, error)
	ExtractFromPDF(sourceName string, pdf io.Reader) (*model.ExtractionRun, error)
	GetExtractionRun(id string) (*model.ExtractionRun, error)
	ListExtractionRuns(limit int) ([]model.ExtractionRunSummary, error)
	DeleteExtractionRun(id string) error
}
