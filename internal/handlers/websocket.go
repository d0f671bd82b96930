package handlers

import (
	"net/http"

	"name-swiper/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // two trusted clients on a private deployment
	},
}

// WebSocketHandler serves the live catalog/vote/match feed
type WebSocketHandler struct {
	hub      *services.WSHub
	sessions *services.SessionService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, sessions *services.SessionService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, sessions: sessions}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	user, err := h.sessions.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(user, conn)
	defer h.hub.Unregister(user)

	partner := h.sessions.Users().Partner(user)
	h.hub.NotifyPartnerStatus(partner, true)
	defer h.hub.NotifyPartnerStatus(partner, false)

	online := h.hub.IsOnline(partner)
	if err := h.hub.SendToUser(user, services.WSMessage{Type: services.MsgPartnerStatus, Online: &online}); err != nil {
		log.Error().Err(err).Str("user", user).Msg("Failed to send partner status")
	}

	log.Info().Str("user", user).Msg("WebSocket connection established")

	// The feed is push-only; the read loop just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user", user).Msg("WebSocket error")
			}
			return
		}
	}
}
