package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAddRequiresName(t *testing.T) {
	m := newAddModel(nil, nil)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("empty form must not submit")
	}
	if !strings.Contains(m.View(), "name is required") {
		t.Errorf("expected validation message, got:\n%s", m.View())
	}
}

func TestAddGenderCycles(t *testing.T) {
	m := newAddModel(nil, nil)
	m.focus = fieldGender

	start := m.gender
	for range genderOrder {
		m, _ = m.Update(keyRunes("l"))
	}
	if m.gender != start {
		t.Errorf("cycling through all genders should wrap, got %s", m.gender)
	}

	m, _ = m.Update(keyRunes("l"))
	m, _ = m.Update(keyRunes("h"))
	if m.gender != start {
		t.Errorf("h should reverse l, got %s", m.gender)
	}
}

func TestAddDuplicateShowsFriendlyError(t *testing.T) {
	m := newAddModel(nil, nil)
	m.submitted = true

	m, _ = m.Update(nameCreatedMsg{err: client.ErrDuplicate})
	if !strings.Contains(m.View(), "already in the catalog") {
		t.Errorf("expected duplicate message, got:\n%s", m.View())
	}
}

func TestAddTypingGoesToFocusedField(t *testing.T) {
	m := newAddModel(nil, nil)

	for _, r := range "Freja" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "nordic" {
		m, _ = m.Update(keyRunes(string(r)))
	}

	if m.name != "Freja" {
		t.Errorf("name field = %q, want Freja", m.name)
	}
	if m.tags != "nordic" {
		t.Errorf("tags field = %q, want nordic", m.tags)
	}
	if m.gender == "" {
		t.Error("gender should keep its default")
	}
}
