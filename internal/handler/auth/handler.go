package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypilot/backend/internal/config"
	model "github.com/propertypilot/backend/internal/model/session"
	authsvc "github.com/propertypilot/backend/internal/service/auth"
	"github.com/propertypilot/backend/pkg/utils"
)

// LoginClient performs user-pool logins and preference lookups.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (*authsvc.Tokens, error)
	UserPreferences(ctx context.Context, userID string) (map[string]string, error)
}

// TokenVerifier validates bearer tokens into user profiles.
type TokenVerifier interface {
	Verify(token string) (*model.UserProfile, error)
}

// Handler serves the authentication endpoints.
type Handler struct {
	client   LoginClient
	verifier TokenVerifier
	cfg      config.AuthConfig
}

// New creates the auth handler. client and verifier may be nil when no user
// pool is configured; endpoints then report the service as unavailable.
func New(client LoginClient, verifier TokenVerifier, cfg config.AuthConfig) *Handler {
	return &Handler{client: client, verifier: verifier, cfg: cfg}
}

// RegisterRoutes mounts the auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Get("/user", h.handleUser)
	r.Get("/status", h.handleStatus)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if h.client == nil || h.verifier == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "authentication not configured")
		return
	}

	tokens, err := h.client.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	profile, err := h.verifier.Verify(tokens.IDToken)
	if err != nil {
		log.Printf("[auth] login token verification failed: %v", err)
		utils.RespondError(w, http.StatusUnauthorized, "Failed to extract user information")
		return
	}

	userInfo := h.buildUserInfo(r.Context(), profile)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"access_token": tokens.AccessToken,
		"token_type":   tokens.TokenType,
		"expires_in":   tokens.ExpiresIn,
		"user_info":    userInfo,
	})
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "authentication not configured")
		return
	}

	profile, err := h.verifier.Verify(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"user_info":     h.buildUserInfo(r.Context(), profile),
		"authenticated": true,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"service":            "PropertyPilot-Cognito-Auth",
		"cognito_configured": h.cfg.UserPoolID != "" && h.cfg.ClientID != "",
		"user_pool_id":       h.cfg.UserPoolID,
		"region":             h.cfg.Region,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	})
}

// buildUserInfo merges the token claims with fresh stored preferences.
func (h *Handler) buildUserInfo(ctx context.Context, profile *model.UserProfile) map[string]any {
	info := map[string]any{
		"user_id":                profile.UserID,
		"username":               profile.Username,
		"email":                  profile.Email,
		"given_name":             profile.GivenName,
		"family_name":            profile.FamilyName,
		"investment_preferences": profile.InvestmentPreferences,
		"risk_tolerance":         profile.RiskTolerance,
		"investment_timeline":    profile.InvestmentTimeline,
	}

	if h.client == nil {
		return info
	}
	preferences, err := h.client.UserPreferences(ctx, profile.UserID)
	if err != nil {
		log.Printf("[auth] failed to load preferences for %s: %v", profile.UserID, err)
		return info
	}
	for key, value := range preferences {
		info[key] = value
	}
	return info
}
