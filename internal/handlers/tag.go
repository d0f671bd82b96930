package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"name-swiper/internal/middleware"
	"name-swiper/internal/models"
	"name-swiper/internal/services"

	"github.com/rs/zerolog/log"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tags *services.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tags")
		respondError(w, "Failed to list tags", http.StatusInternalServerError)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, tags, http.StatusOK)
}

// CreateTagRequest is the tag creation payload
type CreateTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), req.Name, req.Description, user)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user", user).Str("tag", req.Name).Msg("Failed to create tag")
		respondError(w, "Failed to create tag", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user", user).Str("tag", tag.Name).Msg("Tag created")
	respondJSON(w, tag, http.StatusCreated)
}
