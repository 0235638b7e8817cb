package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "github.com/propertypilot/backend/internal/model/session"
	"github.com/propertypilot/backend/internal/service/pilot"
	sessionsvc "github.com/propertypilot/backend/internal/service/session"
	"github.com/propertypilot/backend/pkg/utils"
)

const serviceName = "PropertyPilot"

// TokenVerifier validates bearer tokens into user profiles.
type TokenVerifier interface {
	Verify(token string) (*model.UserProfile, error)
}

// PreferenceLoader fetches stored user preferences by user ID.
type PreferenceLoader interface {
	UserPreferences(ctx context.Context, userID string) (map[string]string, error)
}

// Handler serves the main invoke endpoint and the health check.
type Handler struct {
	pilotSvc *pilot.Service
	sessions *sessionsvc.Service
	verifier TokenVerifier
	prefs    PreferenceLoader
	validate *validator.Validate
}

// New creates the invoke handler. verifier and prefs may be nil when
// authentication is not configured.
func New(pilotSvc *pilot.Service, sessions *sessionsvc.Service, verifier TokenVerifier, prefs PreferenceLoader) *Handler {
	return &Handler{
		pilotSvc: pilotSvc,
		sessions: sessions,
		verifier: verifier,
		prefs:    prefs,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the invoke and health routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/invoke", h.handleInvoke)
	r.Get("/ping", h.handlePing)
}

type invokeInput struct {
	Prompt        string  `json:"prompt" validate:"required"`
	Type          string  `json:"type"`
	Location      string  `json:"location"`
	MaxPrice      float64 `json:"max_price"`
	PropertyType  string  `json:"property_type"`
	SessionID     string  `json:"session_id"`
	UserID        string  `json:"user_id"`
	AuthToken     string  `json:"auth_token"`
	Authorization string  `json:"authorization"`
	ResearchFocus string  `json:"research_focus"`
	Address       string  `json:"address"`
	ZillowURL     string  `json:"zillow_url"`
	MinROI        float64 `json:"min_roi"`
}

func (h *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (h *Handler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		utils.RespondError(w, http.StatusBadRequest,
			"No prompt found in input. Please provide a 'prompt' key in the input.")
		return
	}

	ctx := r.Context()

	// Bearer token may arrive in the body or the Authorization header.
	// Verification failures downgrade the request to anonymous.
	profile, preferences := h.authenticate(ctx, input, r.Header.Get("Authorization"))

	userID := input.UserID
	if profile != nil {
		userID = profile.UserID
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	log.Printf("[invoke] session=%s user=%s authenticated=%t", sessionID, orAnonymous(userID), profile != nil)

	record := h.sessions.GetOrCreate(ctx, sessionID)

	req := pilot.Request{
		Prompt:        input.Prompt,
		Type:          input.Type,
		Location:      input.Location,
		MaxPrice:      input.MaxPrice,
		PropertyType:  input.PropertyType,
		SessionID:     sessionID,
		UserID:        userID,
		ResearchFocus: input.ResearchFocus,
		Address:       input.Address,
		ZillowURL:     input.ZillowURL,
		MinROI:        input.MinROI,
	}
	req.Normalize()

	kind := pilot.Route(input.Type, input.Prompt)
	payload, update := h.pilotSvc.Handle(ctx, kind, req, record)

	if profile != nil {
		update.User = profile
		update.Preferences = preferences
	}
	updated := h.sessions.Touch(ctx, sessionID, update)

	requestType := input.Type
	if requestType == "" {
		requestType = "general"
	}

	// The envelope message is the handler's message string when present,
	// otherwise the whole handler payload.
	var message any = payload
	if text, ok := payload["message"].(string); ok {
		message = text
	}

	output := map[string]any{
		"message":        message,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"session_id":     sessionID,
		"user_id":        userID,
		"request_type":   requestType,
		"location":       req.Location,
		"service":        serviceName,
		"memory_enabled": false,
		"authentication": map[string]any{
			"authenticated":      profile != nil,
			"username":           profileField(profile, func(p *model.UserProfile) string { return p.Username }),
			"email":              profileField(profile, func(p *model.UserProfile) string { return p.Email }),
			"preferences_loaded": len(preferences) > 0,
		},
		"analysis_metadata": map[string]any{
			"session_requests":       updated.RequestCount,
			"properties_analyzed":    len(updated.PropertiesAnalyzed),
			"analysis_history_count": len(updated.AnalysisHistory),
			"personalized":           profile != nil,
		},
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"output": output})
}

// decodeInput accepts both {"input": {...}} and the bare input object.
func decodeInput(r *http.Request) (*invokeInput, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Input *invokeInput `json:"input"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Input != nil {
		return envelope.Input, nil
	}

	var bare invokeInput
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return &bare, nil
}

func (h *Handler) authenticate(ctx context.Context, input *invokeInput, authHeader string) (*model.UserProfile, map[string]string) {
	token := input.AuthToken
	if token == "" {
		token = input.Authorization
	}
	if token == "" {
		token = authHeader
	}
	if token == "" || h.verifier == nil {
		return nil, nil
	}

	profile, err := h.verifier.Verify(token)
	if err != nil {
		log.Printf("[invoke] invalid or expired authentication token: %v", err)
		return nil, nil
	}

	var preferences map[string]string
	if h.prefs != nil {
		preferences, err = h.prefs.UserPreferences(ctx, profile.UserID)
		if err != nil {
			log.Printf("[invoke] failed to load preferences for %s: %v", profile.UserID, err)
			preferences = nil
		}
	}
	return profile, preferences
}

func newSessionID() string {
	return fmt.Sprintf("session_%s_%s",
		time.Now().UTC().Format("20060102_150405"),
		strings.Split(uuid.NewString(), "-")[0])
}

func orAnonymous(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

func profileField(profile *model.UserProfile, pick func(*model.UserProfile) string) any {
	if profile == nil {
		return nil
	}
	return pick(profile)
}
