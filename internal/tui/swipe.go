package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"name-swiper/internal/deck"
	"name-swiper/internal/models"
)

// voteDoneMsg carries the result of an asynchronous vote or undo.
type voteDoneMsg struct {
	err error
}

// toastExpiredMsg clears the match toast after its timer runs out.
type toastExpiredMsg struct{}

type swipeModel struct {
	engine *deck.Engine
	snap   deck.Snapshot
	done   int
	total  int
	toast  string
	status string
	width  int
	height int
}

func newSwipeModel(e *deck.Engine) swipeModel {
	return swipeModel{engine: e}
}

func (m swipeModel) Init() tea.Cmd {
	return nil
}

func (m swipeModel) setSnapshot(s deck.Snapshot) swipeModel {
	m.snap = s
	// no-voted names are still in the deck, so only settled votes count
	// toward the denominator.
	m.done = 0
	for _, v := range s.Votes {
		if v == models.VoteYes || v == models.VoteFavorite {
			m.done++
		}
	}
	m.total = m.done + len(s.Deck)
	return m
}

// showMatch displays the toast and schedules its removal.
func (m swipeModel) showMatch(name string) (swipeModel, tea.Cmd) {
	m.toast = fmt.Sprintf("It's a match! You both like %s", name)
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

func (m swipeModel) Update(msg tea.Msg) (swipeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastExpiredMsg:
		m.toast = ""
		return m, nil

	case voteDoneMsg:
		switch {
		case msg.err == nil:
			m.status = ""
		case errors.Is(msg.err, deck.ErrOutOfTurn):
			// A second keypress raced the in-flight write; nothing to show.
		case errors.Is(msg.err, deck.ErrUndoExpired):
			m.status = "too late to undo"
		case errors.Is(msg.err, deck.ErrPersistence):
			m.status = "vote not saved, check the connection"
		default:
			m.status = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m swipeModel) updateKeys(msg tea.KeyMsg) (swipeModel, tea.Cmd) {
	if m.engine == nil {
		return m, nil
	}
	switch msg.String() {
	case "y", "right":
		return m.cast(models.VoteYes)
	case "n", "left":
		return m.cast(models.VoteNo)
	case "f":
		return m.cast(models.VoteFavorite)
	case "u":
		m.status = ""
		e := m.engine
		return m, func() tea.Msg {
			return voteDoneMsg{err: e.Undo(context.Background())}
		}
	}
	return m, nil
}

func (m swipeModel) cast(v models.Vote) (swipeModel, tea.Cmd) {
	if m.snap.InFlight || len(m.snap.Deck) == 0 {
		return m, nil
	}
	m.status = ""
	e := m.engine
	id := m.snap.Deck[0].ID
	return m, func() tea.Msg {
		return voteDoneMsg{err: e.Vote(context.Background(), id, v)}
	}
}

func (m swipeModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + progressBar(m.done, m.total, 30) + "\n\n")

	if len(m.snap.Deck) == 0 {
		b.WriteString("  " + dimStyle.Render("no cards left, every name has a vote") + "\n")
	} else {
		top := m.snap.Deck[0]
		name := genderStyle(top.Gender).Bold(true).Render(top.Name)
		card := name + "\n" + metaStyle.Render(string(top.Gender))
		if tags := renderTags(top.Tags); tags != "" {
			card += "\n" + tags
		}
		b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(cardStyle.Render(card)) + "\n")

		if len(m.snap.Deck) > 1 {
			b.WriteString("\n  " + metaStyle.Render(fmt.Sprintf("%d more in the deck", len(m.snap.Deck)-1)) + "\n")
		}
	}

	if m.snap.InFlight {
		b.WriteString("\n  " + dimStyle.Render("saving..."))
	}
	if m.toast != "" {
		b.WriteString("\n  " + matchStyle.Render("✨ "+m.toast+" ✨"))
	}
	if m.status != "" {
		b.WriteString("\n  " + errStyle.Render(m.status))
	}

	return b.String()
}

func (m swipeModel) helpKeys() string {
	h := helpEntry("y", "yes") + "  " + helpEntry("n", "no") + "  " + helpEntry("f", "favorite")
	if m.snap.UndoOpen {
		h += "  " + helpEntry("u", "undo")
	}
	return h
}
