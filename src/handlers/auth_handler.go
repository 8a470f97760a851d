package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/security"
	"github.com/username/gainscan/backend/src/utils"
)

// Define a custom type for context keys to avoid collisions.
// This type is unexported, making it unique to this package.
type contextKey string

const clientIDContextKey contextKey = "clientID"

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type tokenRequest struct {
	APIKey string `json:"apiKey"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// HandleIssueToken exchanges a configured API key for a short-lived bearer
// token. The key travels in the JSON body or the X-API-Key header.
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if r.Body != nil {
		// An empty body is fine when the header carries the key.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.APIKey == "" {
		req.APIKey = r.Header.Get("X-API-Key")
	}
	if req.APIKey == "" {
		utils.SendJSONError(w, "apiKey is required (body field or X-API-Key header)", http.StatusBadRequest)
		return
	}

	if err := h.authService.VerifyAPIKey(req.APIKey); err != nil {
		logger.L.Warn("Token request with invalid API key", "remoteAddr", r.RemoteAddr)
		utils.SendJSONError(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken("api-client")
	if err != nil {
		logger.L.Error("Failed to generate access token", "error", err)
		utils.SendJSONError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	resp := tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(config.Cfg.AccessTokenExpiry.Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L.Error("Error encoding token response", "error", err)
	}
}

// GetClientIDFromContext returns the authenticated client subject placed in
// the request context by AuthMiddleware.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDContextKey).(string)
	return clientID, ok
}
