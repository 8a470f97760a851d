// backend/src/handlers/extraction_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/model"
	"github.com/username/gainscan/backend/src/security/validation"
	"github.com/username/gainscan/backend/src/services"
	"github.com/username/gainscan/backend/src/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ExtractionHandler struct {
	extractionService services.ExtractionService
}

func NewExtractionHandler(service services.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: service,
	}
}

// HandleExtract accepts a multipart upload (field "file") holding either a
// PDF or a plain-text dump of a 1099-B and runs the extraction pipeline on
// it. A document the pipeline cannot parse is still a 200: the stored run
// reports success=false with the reason. Transport and upstream failures are
// the only non-200 paths.
func (h *ExtractionHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	clientID, ok := GetClientIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "clientID", clientID, "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "clientID", clientID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "clientID", clientID, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "clientID", clientID, "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "clientID", clientID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("Processing extraction request", "clientID", clientID, "filename", fileHeader.Filename, "detectedType", detectedContentType)

	var run *model.ExtractionRun
	if validation.IsPDFContentType(detectedContentType) {
		run, err = h.extractionService.ExtractFromPDF(fileHeader.Filename, file)
	} else {
		raw, readErr := io.ReadAll(file)
		if readErr != nil {
			logger.L.Error("Failed to read uploaded text", "clientID", clientID, "filename", fileHeader.Filename, "error", readErr)
			utils.SendJSONError(w, "Failed to read uploaded file.", http.StatusBadRequest)
			return
		}
		run, err = h.extractionService.ExtractFromText(fileHeader.Filename, string(raw))
	}
	if err != nil {
		if errors.Is(err, services.ErrPageExtraction) {
			logger.L.Warn("Upstream page extraction failed", "clientID", clientID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Could not extract text from document: %v", err), http.StatusBadGateway)
			return
		}
		logger.L.Error("Internal error processing extraction", "clientID", clientID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the document. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(run); err != nil {
		logger.L.Error("Error encoding JSON response for extraction run", "clientID", clientID, "error", err)
	}
}

// HandleListExtractions returns run summaries, newest first.
func (h *ExtractionHandler) HandleListExtractions(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	summaries, err := h.extractionService.ListExtractionRuns(limit)
	if err != nil {
		logger.L.Error("Error listing extraction runs", "error", err)
		utils.SendJSONError(w, "Error retrieving extraction runs.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		logger.L.Error("Error encoding JSON response for extraction run list", "error", err)
	}
}

// HandleGetExtraction returns one stored run with full transactions,
// honoring If-None-Match so polling clients skip unchanged payloads.
func (h *ExtractionHandler) HandleGetExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.extractionService.GetExtractionRun(id)
	if err != nil {
		if errors.Is(err, model.ErrExtractionRunNotFound) {
			utils.SendJSONError(w, "extraction run not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving extraction run", "runID", id, "error", err)
		utils.SendJSONError(w, "Error retrieving extraction run.", http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(run)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for extraction run", "runID", id, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		clientETags := strings.Split(clientETag, ",")
		for _, cETag := range clientETags {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Debug("ETag match for extraction run", "runID", id, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(run); err != nil {
		logger.L.Error("Error encoding JSON response for extraction run", "runID", id, "error", err)
	}
}

// HandleDeleteExtraction removes a stored run and its transactions.
func (h *ExtractionHandler) HandleDeleteExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.extractionService.DeleteExtractionRun(id); err != nil {
		if errors.Is(err, model.ErrExtractionRunNotFound) {
			utils.SendJSONError(w, "extraction run not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting extraction run", "runID", id, "error", err)
		utils.SendJSONError(w, "Error deleting extraction run.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
