package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"name-swiper/internal/middleware"
	"name-swiper/internal/models"
	"name-swiper/internal/repository"
	"name-swiper/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NameHandler handles catalog and vote HTTP requests
type NameHandler struct {
	catalog *services.CatalogService
	votes   *services.VoteService
	hub     *services.WSHub
	push    *services.PushService
}

// NewNameHandler creates a new name handler
func NewNameHandler(catalog *services.CatalogService, votes *services.VoteService, hub *services.WSHub, push *services.PushService) *NameHandler {
	return &NameHandler{catalog: catalog, votes: votes, hub: hub, push: push}
}

// ListNames handles GET /api/v1/names
func (h *NameHandler) ListNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalog.ListNames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list names")
		respondError(w, "Failed to list names", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []models.NameRecord{}
	}
	respondJSON(w, names, http.StatusOK)
}

// CreateNameRequest is the add-name payload
type CreateNameRequest struct {
	Name   string        `json:"name"`
	Gender models.Gender `json:"gender"`
	Tags   []string      `json:"tags"`
	Source string        `json:"source"`
}

// CreateName handles POST /api/v1/names
func (h *NameHandler) CreateName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var req CreateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.catalog.CreateName(ctx, req.Name, req.Gender, req.Tags, user, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			respondError(w, "name already exists", http.StatusConflict)
		case errors.Is(err, services.ErrInvalidInput):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("user", user).Str("name", req.Name).Msg("Failed to create name")
			respondError(w, "Failed to create name", http.StatusInternalServerError)
		}
		return
	}

	log.Info().Str("user", user).Str("name", rec.Name).Str("name_id", rec.ID).Msg("Name added")

	h.hub.Broadcast(services.WSMessage{Type: services.MsgNameAdded, NameID: rec.ID, Name: rec})

	respondJSON(w, rec, http.StatusCreated)
}

// VoteRequest is the vote payload
type VoteRequest struct {
	Value models.Vote `json:"value"`
}

// CastVote handles PUT /api/v1/names/{name_id}/vote
func (h *NameHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	nameID := chi.URLParam(r, "name_id")

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.votes.Cast(ctx, user, nameID, req.Value)
	if err != nil {
		h.respondVoteError(w, err, user, nameID)
		return
	}

	log.Info().
		Str("user", user).
		Str("name_id", nameID).
		Str("value", string(req.Value)).
		Bool("is_a_match", result.Record.IsAMatch).
		Msg("Vote cast")

	h.announce(ctx, user, req.Value, result)

	respondJSON(w, result.Record, http.StatusOK)
}

// ClearVote handles DELETE /api/v1/names/{name_id}/vote
func (h *NameHandler) ClearVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	nameID := chi.URLParam(r, "name_id")

	result, err := h.votes.Clear(ctx, user, nameID)
	if err != nil {
		h.respondVoteError(w, err, user, nameID)
		return
	}

	log.Info().Str("user", user).Str("name_id", nameID).Msg("Vote cleared")

	h.announce(ctx, user, "", result)

	respondJSON(w, result.Record, http.StatusOK)
}

func (h *NameHandler) respondVoteError(w http.ResponseWriter, err error, user, nameID string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, "name not found", http.StatusNotFound)
	case errors.Is(err, services.ErrUnknownUser):
		respondError(w, "unknown user", http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("user", user).Str("name_id", nameID).Msg("Failed to apply vote")
		respondError(w, "Failed to apply vote", http.StatusInternalServerError)
	}
}

// announce fans the vote out over the live feed and, on a fresh match,
// pushes an alert to the partner's device.
func (h *NameHandler) announce(ctx context.Context, user string, value models.Vote, result *services.CastResult) {
	rec := result.Record

	h.hub.Broadcast(services.WSMessage{
		Type:   services.MsgVoteCast,
		NameID: rec.ID,
		Name:   rec,
		Voter:  user,
		Value:  value,
	})

	if !result.NewMatch {
		return
	}

	h.hub.Broadcast(services.WSMessage{Type: services.MsgMatch, NameID: rec.ID, Name: rec, Voter: user})

	if h.push == nil || !h.push.Enabled() {
		return
	}
	partner := h.votes.Partner(user)
	profile, err := h.votes.GetProfile(ctx, partner)
	if err != nil {
		log.Error().Err(err).Str("user", partner).Msg("Failed to load partner profile for push")
		return
	}
	if profile.PushToken == nil {
		return
	}
	if err := h.push.NotifyMatch(ctx, *profile.PushToken, rec.Name); err != nil {
		log.Error().Err(err).Str("user", partner).Str("name", rec.Name).Msg("Failed to push match alert")
	}
}
