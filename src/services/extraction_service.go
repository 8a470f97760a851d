// backend/src/services/extraction_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/database"
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/model"
	"github.com/username/gainscan/backend/src/pipeline"
	"github.com/username/gainscan/backend/src/security/validation"
	"github.com/username/gainscan/backend/src/utils"
)

const (
	// Completed runs keyed by document digest and by run id. A repeat upload
	// of byte-identical text is answered without re-running the pipeline.
	ckRunByDigest = "res_extraction_run_sha_%s"
	ckRunByID     = "res_extraction_run_id_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type extractionServiceImpl struct {
	pipeline      *pipeline.Pipeline
	pageExtractor PageTextExtractor
	emailService  EmailService
	reportCache   *cache.Cache
}

func NewExtractionService(
	pl *pipeline.Pipeline,
	pageExtractor PageTextExtractor,
	emailService EmailService,
	reportCache *cache.Cache,
) ExtractionService {
	return &extractionServiceImpl{
		pipeline:      pl,
		pageExtractor: pageExtractor,
		emailService:  emailService,
		reportCache:   reportCache,
	}
}

func (s *extractionServiceImpl) ExtractFromText(sourceName, text string) (*model.ExtractionRun, error) {
	overallStartTime := time.Now()
	logger.L.Info("ExtractFromText START", "source", sourceName, "chars", len(text))

	text = validation.StripUnprintable(text)
	digest := utils.SHA256Hex(text)

	if cached, found := s.reportCache.Get(fmt.Sprintf(ckRunByDigest, digest)); found {
		logger.L.Debug("Cache hit for document digest", "source", sourceName, "sha256", digest)
		return cached.(*model.ExtractionRun), nil
	}

	if run, err := model.GetExtractionRunByTextSHA256(database.DB, digest); err == nil {
		logger.L.Info("Reusing stored run for identical document", "source", sourceName, "runID", run.ID)
		s.cacheRun(run)
		return run, nil
	}

	result := s.pipeline.Run(text)

	run := &model.ExtractionRun{
		ID:         uuid.NewString(),
		SourceName: sourceName,
		TextSHA256: digest,
		Result:     result,
	}

	if err := model.CreateExtractionRun(database.DB, run); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoringRun, err)
	}
	s.cacheRun(run)

	if config.Cfg != nil && config.Cfg.ReportRecipient != "" {
		if err := s.emailService.SendExtractionReport(config.Cfg.ReportRecipient, run); err != nil {
			logger.L.Error("Failed to send extraction report", "runID", run.ID, "error", err)
		}
	}

	logger.L.Info("ExtractFromText END",
		"source", sourceName,
		"runID", run.ID,
		"brokerage", run.Result.Brokerage,
		"success", run.Result.Success,
		"duration", time.Since(overallStartTime))
	return run, nil
}

func (s *extractionServiceImpl) ExtractFromPDF(sourceName string, pdf io.Reader) (*model.ExtractionRun, error) {
	timeout := 45 * time.Second
	if config.Cfg != nil && config.Cfg.PageExtractorTimeout > 0 {
		timeout = config.Cfg.PageExtractorTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pages, err := s.pageExtractor.ExtractPages(ctx, sourceName, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageExtraction, err)
	}

	// Pages are joined with a trailing newline each, matching what the
	// extractors expect from multi-page statements.
	var b strings.Builder
	for _, page := range pages {
		b.WriteString(page)
		b.WriteString("\n")
	}
	return s.ExtractFromText(sourceName, b.String())
}

func (s *extractionServiceImpl) GetExtractionRun(id string) (*model.ExtractionRun, error) {
	if cached, found := s.reportCache.Get(fmt.Sprintf(ckRunByID, id)); found {
		logger.L.Debug("Cache hit for extraction run", "runID", id)
		return cached.(*model.ExtractionRun), nil
	}

	run, err := model.GetExtractionRunByID(database.DB, id)
	if err != nil {
		return nil, err
	}
	s.cacheRun(run)
	return run, nil
}

func (s *extractionServiceImpl) ListExtractionRuns(limit int) ([]model.ExtractionRunSummary, error) {
	return model.ListExtractionRuns(database.DB, limit)
}

func (s *extractionServiceImpl) DeleteExtractionRun(id string) error {
	run, err := model.GetExtractionRunByID(database.DB, id)
	if err != nil {
		return err
	}
	if err := model.DeleteExtractionRun(database.DB, id); err != nil {
		return err
	}

	s.reportCache.Delete(fmt.Sprintf(ckRunByID, id))
	s.reportCache.Delete(fmt.Sprintf(ckRunByDigest, run.TextSHA256))
	logger.L.Info("Deleted extraction run", "runID", id)
	return nil
}

func (s *extractionServiceImpl) cacheRun(run *model.ExtractionRun) {
	s.reportCache.Set(fmt.Sprintf(ckRunByDigest, run.TextSHA256), run, cache.DefaultExpiration)
	s.reportCache.Set(fmt.Sprintf(ckRunByID, run.ID), run, cache.DefaultExpiration)
}
