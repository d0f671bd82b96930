package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"name-swiper/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket message types pushed to clients.
const (
	MsgNameAdded     = "name_added"
	MsgVoteCast      = "vote_cast"
	MsgMatch         = "match"
	MsgPartnerStatus = "partner_status"
	MsgError         = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string             `json:"type"`
	NameID  string             `json:"name_id,omitempty"`
	Name    *models.NameRecord `json:"name,omitempty"`
	Voter   string             `json:"voter,omitempty"`
	Value   models.Vote        `json:"value,omitempty"`
	Online  *bool              `json:"online,omitempty"`
	Message string             `json:"message,omitempty"`
}

// WSHub manages the live feed connections. At most two identities connect;
// catalog and vote events fan out to every open connection so each client's
// deck can rebuild without polling.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{connections: make(map[string]*websocket.Conn)}
}

// Register registers a connection for a user, replacing any existing one.
func (h *WSHub) Register(user string, conn *websocket.Conn) {
	h.mu.Lock()
	if existing, ok := h.connections[user]; ok {
		existing.Close()
	}
	h.connections[user] = conn
	h.mu.Unlock()

	log.Info().Str("user", user).Msg("WebSocket connection registered")
}

// Unregister removes a user's connection
func (h *WSHub) Unregister(user string) {
	h.mu.Lock()
	if conn, ok := h.connections[user]; ok {
		conn.Close()
		delete(h.connections, user)
		log.Info().Str("user", user).Msg("WebSocket connection unregistered")
	}
	h.mu.Unlock()
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(user string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[user]
	return ok
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(user string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[user]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", user)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(user)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every connected user. Send failures are
// logged, not returned; a dead connection is dropped by SendToUser.
func (h *WSHub) Broadcast(message WSMessage) {
	h.mu.RLock()
	users := make([]string, 0, len(h.connections))
	for user := range h.connections {
		users = append(users, user)
	}
	h.mu.RUnlock()

	for _, user := range users {
		if err := h.SendToUser(user, message); err != nil {
			log.Error().Err(err).Str("user", user).Str("type", message.Type).Msg("Failed to broadcast message")
		}
	}
}

// NotifyPartnerStatus tells the partner their counterpart went on/offline.
func (h *WSHub) NotifyPartnerStatus(partner string, online bool) {
	if partner == "" || !h.IsOnline(partner) {
		return
	}
	if err := h.SendToUser(partner, WSMessage{Type: MsgPartnerStatus, Online: &online}); err != nil {
		log.Error().Err(err).Str("user", partner).Msg("Failed to notify partner status")
	}
}
