package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
)

// loggedInMsg carries the result of the identity selection.
type loggedInMsg struct {
	res *client.LoginResult
	err error
}

type loginModel struct {
	client    *client.Client
	name      string
	submitted bool
	err       error
}

func newLoginModel(c *client.Client, lastUser string) loginModel {
	return loginModel{client: c, name: lastUser}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		m.submitted = false
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		m.err = nil
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.name)
			if name == "" {
				return m, nil
			}
			m.submitted = true
			c := m.client
			return m, func() tea.Msg {
				res, err := c.Login(context.Background(), name)
				return loggedInMsg{res: res, err: err}
			}
		case "backspace":
			if len(m.name) > 0 {
				runes := []rune(m.name)
				m.name = string(runes[:len(runes)-1])
			}
		default:
			if len(msg.Runes) == 1 {
				m.name += string(msg.Runes)
			}
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("who is swiping?") + "\n\n")
	b.WriteString("  " + selectedStyle.Render("> ") + m.name + "█\n\n")

	switch {
	case m.submitted:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.err != nil:
		b.WriteString("  " + errStyle.Render(m.err.Error()))
	default:
		b.WriteString("  " + metaStyle.Render("type your name and press enter"))
	}

	return b.String()
}
