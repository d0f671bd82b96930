package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/deck"
	"name-swiper/internal/models"
)

type nopStore struct{}

func (nopStore) SetVote(context.Context, string, *models.Vote) error { return nil }

func makeName(id, name string, gender models.Gender) models.NameRecord {
	return models.NameRecord{
		ID:     id,
		Name:   name,
		Gender: gender,
		Votes:  map[string]models.Vote{},
	}
}

func newTestSwipeModel(names ...models.NameRecord) swipeModel {
	e := deck.New("Andreas", "Emilie", nopStore{}, nil, 15*time.Second)
	e.Load(names, nil)
	m := newSwipeModel(e)
	return m.setSnapshot(e.Current())
}

func TestSwipeShowsTopCard(t *testing.T) {
	m := newTestSwipeModel(
		makeName("id-1", "Freja", models.GenderGirl),
		makeName("id-2", "Viggo", models.GenderBoy),
	)

	view := m.View()
	if !strings.Contains(view, "Freja") {
		t.Errorf("expected view to show the top card, got:\n%s", view)
	}
	if !strings.Contains(view, "1 more in the deck") {
		t.Errorf("expected deck counter, got:\n%s", view)
	}
}

func TestSwipeEmptyDeck(t *testing.T) {
	m := newTestSwipeModel()

	view := m.View()
	if !strings.Contains(view, "no cards left") {
		t.Errorf("expected empty-deck message, got:\n%s", view)
	}
}

func TestSwipeVoteAdvancesDeck(t *testing.T) {
	m := newTestSwipeModel(
		makeName("id-1", "Freja", models.GenderGirl),
		makeName("id-2", "Viggo", models.GenderBoy),
	)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected a vote command")
	}
	if _, ok := cmd().(voteDoneMsg); !ok {
		t.Fatal("expected voteDoneMsg from the vote command")
	}

	m = m.setSnapshot(m.engine.Current())
	view := m.View()
	if strings.Contains(view, "Freja") {
		t.Errorf("voted card should leave the deck, got:\n%s", view)
	}
	if !strings.Contains(view, "Viggo") {
		t.Errorf("next card should surface, got:\n%s", view)
	}
}

func TestSwipeMatchToast(t *testing.T) {
	m := newTestSwipeModel(makeName("id-1", "Freja", models.GenderGirl))

	m, _ = m.showMatch("Freja")
	if !strings.Contains(m.View(), "It's a match") {
		t.Errorf("expected match toast, got:\n%s", m.View())
	}

	m, _ = m.Update(toastExpiredMsg{})
	if strings.Contains(m.View(), "It's a match") {
		t.Errorf("toast should clear, got:\n%s", m.View())
	}
}

func TestSwipeUndoHelpOnlyWhileOpen(t *testing.T) {
	m := newTestSwipeModel(
		makeName("id-1", "Freja", models.GenderGirl),
		makeName("id-2", "Viggo", models.GenderBoy),
	)
	if strings.Contains(m.helpKeys(), "undo") {
		t.Error("undo should be hidden before any vote")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	cmd()
	m = m.setSnapshot(m.engine.Current())
	if !strings.Contains(m.helpKeys(), "undo") {
		t.Error("undo should show while the window is open")
	}
}

func TestSwipeProgressIgnoresNoVotes(t *testing.T) {
	m := newTestSwipeModel(
		makeName("id-1", "Freja", models.GenderGirl),
		makeName("id-2", "Viggo", models.GenderBoy),
	)
	if m.done != 0 || m.total != 2 {
		t.Fatalf("fresh deck: done = %d, total = %d; want 0, 2", m.done, m.total)
	}

	if err := m.engine.Vote(context.Background(), "id-1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	m = m.setSnapshot(m.engine.Current())
	if m.done != 0 {
		t.Errorf("a no vote is not progress, done = %d", m.done)
	}
	if m.total != 2 {
		t.Errorf("the no-voted card is still in the deck, total = %d; want 2", m.total)
	}

	if err := m.engine.Vote(context.Background(), "id-2", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	m = m.setSnapshot(m.engine.Current())
	if m.done != 1 || m.total != 2 {
		t.Errorf("after one yes: done = %d, total = %d; want 1, 2", m.done, m.total)
	}
}
