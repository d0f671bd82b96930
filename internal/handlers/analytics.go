package handlers

import (
	"net/http"

	"name-swiper/internal/services"

	"github.com/rs/zerolog/log"
)

// AnalyticsHandler serves the catalog dashboard numbers
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	backup    *services.BackupService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *services.AnalyticsService, backup *services.BackupService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, backup: backup}
}

// GetAnalytics handles GET /api/v1/analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.analytics.Compute(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute analytics")
		respondError(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}
	respondJSON(w, data, http.StatusOK)
}

// BackupResponse reports where the snapshot landed
type BackupResponse struct {
	Key string `json:"key"`
}

// Backup handles POST /api/v1/backup
func (h *AnalyticsHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		respondError(w, "backups are not configured", http.StatusServiceUnavailable)
		return
	}

	key, err := h.backup.Backup(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to back up catalog")
		respondError(w, "Failed to back up catalog", http.StatusInternalServerError)
		return
	}

	log.Info().Str("key", key).Msg("Catalog backed up")
	respondJSON(w, BackupResponse{Key: key}, http.StatusOK)
}
