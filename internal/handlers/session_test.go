package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-swiper/internal/config"
	"name-swiper/internal/handlers"
	"name-swiper/internal/services"
)

func newTestSessionHandler(window time.Duration) *handlers.SessionHandler {
	sessions := services.NewSessionService(stubProfileStore{}, testUsers, "secret")
	votes := services.NewVoteService(&stubNameStore{}, stubProfileStore{}, testUsers)
	return handlers.NewSessionHandler(sessions, votes, config.DeckConfig{UndoWindow: window})
}

func TestSelectAnnouncesUndoWindow(t *testing.T) {
	h := newTestSessionHandler(30 * time.Second)

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"user":"Emilie"}`))
	rec := httptest.NewRecorder()
	h.Select(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res handlers.SelectResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "Emilie", res.User)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, testUsers.Pair(), res.Users)
	assert.Equal(t, 30, res.UndoWindowSeconds)
}

func TestSelectUnknownIdentityIsForbidden(t *testing.T) {
	h := newTestSessionHandler(15 * time.Second)

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"user":"Mallory"}`))
	rec := httptest.NewRecorder()
	h.Select(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
