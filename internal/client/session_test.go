package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-swiper/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := OpenSessionAt(path)
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	assert.Equal(t, models.GenderUnisex, s.LastGender())

	require.NoError(t, s.SetIdentity("http://localhost:8080", "Andreas", "tok-1"))
	require.NoError(t, s.SetLastGender(models.GenderGirl))
	require.NoError(t, s.SetNoOrder([]string{"id-2", "id-1"}))

	reloaded, err := OpenSessionAt(path)
	require.NoError(t, err)
	assert.Equal(t, "Andreas", reloaded.User())
	assert.Equal(t, "tok-1", reloaded.Token())
	assert.Equal(t, "http://localhost:8080", reloaded.ServerURL())
	assert.Equal(t, models.GenderGirl, reloaded.LastGender())
	assert.Equal(t, []string{"id-2", "id-1"}, reloaded.NoOrder())
}

func TestSessionNoOrderIsPerUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := OpenSessionAt(path)
	require.NoError(t, err)

	require.NoError(t, s.SetIdentity("http://localhost:8080", "Andreas", "tok-a"))
	require.NoError(t, s.SetNoOrder([]string{"id-1"}))

	require.NoError(t, s.SetIdentity("http://localhost:8080", "Emilie", "tok-e"))
	assert.Empty(t, s.NoOrder())

	require.NoError(t, s.SetNoOrder([]string{"id-9"}))
	require.NoError(t, s.SetIdentity("http://localhost:8080", "Andreas", "tok-a2"))
	assert.Equal(t, []string{"id-1"}, s.NoOrder())
}
