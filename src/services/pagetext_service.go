// backend/src/services/pagetext_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/logger"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2/clientcredentials"
)

// pageTextResponse mirrors the collaborator's JSON payload: one string per
// document page, in order.
type pageTextResponse struct {
	Pages []string `json:"pages"`
	Error string   `json:"error,omitempty"`
}

type pageTextServiceImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewPageTextService builds the client for the external page-text extractor.
// With token credentials configured it authenticates via OAuth2 client
// credentials; otherwise it uses a plain cookie-jar client for deployments
// where the extractor sits behind a session gateway.
func NewPageTextService() PageTextExtractor {
	var baseURL string
	if config.Cfg != nil {
		baseURL = config.Cfg.PageExtractorURL
	}
	if baseURL == "" {
		logger.L.Warn("PAGE_EXTRACTOR_URL not configured; PDF uploads will fail until it is set.")
	}

	var client *http.Client
	if config.Cfg != nil && config.Cfg.PageExtractorTokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     config.Cfg.PageExtractorClientID,
			ClientSecret: config.Cfg.PageExtractorClientSecret,
			TokenURL:     config.Cfg.PageExtractorTokenURL,
		}
		client = cc.Client(context.Background())
		logger.L.Info("Page extractor client using OAuth2 client credentials", "tokenURL", config.Cfg.PageExtractorTokenURL)
	} else {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			logger.L.Error("Failed to create cookie jar", "error", err)
		}
		client = &http.Client{Jar: jar}
	}

	return &pageTextServiceImpl{
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (s *pageTextServiceImpl) ExtractPages(ctx context.Context, filename string, pdf io.Reader) ([]string, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("page extractor URL is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return nil, fmt.Errorf("failed to read document into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build page extractor request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("page extractor returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var payload pageTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode page extractor response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("page extractor reported: %s", payload.Error)
	}
	if len(payload.Pages) == 0 {
		return nil, fmt.Errorf("page extractor returned no pages")
	}

	logger.L.Debug("Page text extracted", "filename", filename, "pages", len(payload.Pages))
	return payload.Pages, nil
}
