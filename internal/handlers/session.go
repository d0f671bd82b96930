package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"name-swiper/internal/config"
	"name-swiper/internal/middleware"
	"name-swiper/internal/services"

	"github.com/rs/zerolog/log"
)

// SessionHandler handles identity selection
type SessionHandler struct {
	sessions *services.SessionService
	votes    *services.VoteService
	deck     config.DeckConfig
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, votes *services.VoteService, deck config.DeckConfig) *SessionHandler {
	return &SessionHandler{sessions: sessions, votes: votes, deck: deck}
}

// SelectRequest is the identity selection payload
type SelectRequest struct {
	User string `json:"user"`
}

// SelectResponse carries the session token, the configured identity pair
// and the deck tuning the client should honor
type SelectResponse struct {
	Token             string    `json:"token"`
	User              string    `json:"user"`
	Users             [2]string `json:"users"`
	UndoWindowSeconds int       `json:"undo_window_seconds"`
}

// Select handles POST /api/v1/session
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.sessions.Select(r.Context(), req.User)
	if err != nil {
		if errors.Is(err, services.ErrUnknownUser) {
			respondError(w, "unknown user", http.StatusForbidden)
			return
		}
		log.Error().Err(err).Str("user", req.User).Msg("Failed to select identity")
		respondError(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user", req.User).Msg("Identity selected")

	respondJSON(w, SelectResponse{
		Token:             token,
		User:              req.User,
		Users:             h.sessions.Users().Pair(),
		UndoWindowSeconds: int(h.deck.UndoWindow / time.Second),
	}, http.StatusOK)
}

// GetProfile handles GET /api/v1/profile
func (h *SessionHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	profile, err := h.votes.GetProfile(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("Failed to load profile")
		respondError(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	respondJSON(w, profile, http.StatusOK)
}

// PushTokenRequest carries a device token; null clears it
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// SetPushToken handles PUT /api/v1/profile/push-token
func (h *SessionHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.votes.SetPushToken(r.Context(), user, req.PushToken); err != nil {
		log.Error().Err(err).Str("user", user).Msg("Failed to set push token")
		respondError(w, "Failed to set push token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
