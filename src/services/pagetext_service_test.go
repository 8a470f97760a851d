package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageTextClient(serverURL string) *pageTextServiceImpl {
	return &pageTextServiceImpl{
		baseURL:    serverURL,
		httpClient: http.DefaultClient,
	}
}

func TestExtractPages(t *testing.T) {
	var uploadedFilename string
	var uploadedContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()

		uploadedFilename = header.Filename
		uploadedContent, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages": ["page one text", "page two text"]}`))
	}))
	defer server.Close()

	pages, err := newPageTextClient(server.URL).ExtractPages(context.Background(), "statement.pdf", strings.NewReader("%PDF-1.4 fake"))

	require.NoError(t, err)
	assert.Equal(t, []string{"page one text", "page two text"}, pages)
	assert.Equal(t, "statement.pdf", uploadedFilename)
	assert.Equal(t, "%PDF-1.4 fake", string(uploadedContent))
}

func TestExtractPages_UpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "worker crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newPageTextClient(server.URL).ExtractPages(context.Background(), "statement.pdf", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "worker crashed")
}

func TestExtractPages_UpstreamReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages": [], "error": "document is encrypted"}`))
	}))
	defer server.Close()

	_, err := newPageTextClient(server.URL).ExtractPages(context.Background(), "statement.pdf", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document is encrypted")
}

func TestExtractPages_EmptyPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages": []}`))
	}))
	defer server.Close()

	_, err := newPageTextClient(server.URL).ExtractPages(context.Background(), "statement.pdf", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages")
}

func TestExtractPages_NotConfigured(t *testing.T) {
	_, err := newPageTextClient("").ExtractPages(context.Background(), "statement.pdf", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestExtractPages_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPageTextClient(server.URL).ExtractPages(ctx, "statement.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
