package tui

import (
	"testing"
	"time"

	"name-swiper/internal/client"
)

func TestUndoWindowFollowsServer(t *testing.T) {
	res := &client.LoginResult{UndoWindowSeconds: 30}
	if got := undoWindowFor(res); got != 30*time.Second {
		t.Errorf("undoWindowFor = %v; want 30s", got)
	}
}

func TestUndoWindowDefaultsWhenUnset(t *testing.T) {
	if got := undoWindowFor(&client.LoginResult{}); got != DefaultUndoWindow {
		t.Errorf("undoWindowFor = %v; want %v", got, DefaultUndoWindow)
	}
}

func TestPartnerOf(t *testing.T) {
	pair := [2]string{"Andreas", "Emilie"}
	if got := partnerOf(pair, "Andreas"); got != "Emilie" {
		t.Errorf("partnerOf = %q; want Emilie", got)
	}
	if got := partnerOf(pair, "Emilie"); got != "Andreas" {
		t.Errorf("partnerOf = %q; want Andreas", got)
	}
}
