package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
	"name-swiper/internal/models"
)

type addField int

const (
	fieldName addField = iota
	fieldGender
	fieldTags
	numAddFields
)

var genderOrder = []models.Gender{models.GenderGirl, models.GenderBoy, models.GenderUnisex}

// nameCreatedMsg carries the result of the add-name submission.
type nameCreatedMsg struct {
	rec *models.NameRecord
	err error
}

type addModel struct {
	client    *client.Client
	session   *client.SessionFile
	name      string
	gender    models.Gender
	tags      string
	focus     addField
	status    string
	submitted bool
}

func newAddModel(c *client.Client, s *client.SessionFile) addModel {
	gender := models.GenderUnisex
	if s != nil {
		gender = s.LastGender()
	}
	return addModel{client: c, session: s, gender: gender}
}

func (m addModel) Init() tea.Cmd {
	return nil
}

func (m addModel) Update(msg tea.Msg) (addModel, tea.Cmd) {
	switch msg := msg.(type) {
	case nameCreatedMsg:
		m.submitted = false
		switch {
		case errors.Is(msg.err, client.ErrDuplicate):
			m.status = "that name is already in the catalog"
		case msg.err != nil:
			m.status = "failed: " + msg.err.Error()
		default:
			m.status = fmt.Sprintf("added %s", msg.rec.Name)
			m.name = ""
			m.tags = ""
			m.focus = fieldName
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m addModel) updateKeys(msg tea.KeyMsg) (addModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.status = ""

	switch msg.String() {
	case "enter":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numAddFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numAddFields) % numAddFields
	case "backspace":
		switch m.focus {
		case fieldName:
			m.name = chopRune(m.name)
		case fieldTags:
			m.tags = chopRune(m.tags)
		}
	case "h", "left", "l", "right":
		if m.focus == fieldGender {
			m = m.cycleGender(msg.String() == "l" || msg.String() == "right")
			return m, nil
		}
		fallthrough
	default:
		if len(msg.Runes) == 1 {
			switch m.focus {
			case fieldName:
				m.name += string(msg.Runes)
			case fieldTags:
				m.tags += string(msg.Runes)
			}
		}
	}
	return m, nil
}

func (m addModel) cycleGender(forward bool) addModel {
	idx := 0
	for i, g := range genderOrder {
		if g == m.gender {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(genderOrder)
	} else {
		idx = (idx - 1 + len(genderOrder)) % len(genderOrder)
	}
	m.gender = genderOrder[idx]
	if m.session != nil {
		_ = m.session.SetLastGender(m.gender)
	}
	return m
}

func (m addModel) submit() (addModel, tea.Cmd) {
	name := strings.TrimSpace(m.name)
	if name == "" {
		m.status = "name is required"
		return m, nil
	}

	var tags []string
	for _, t := range strings.Split(m.tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	m.submitted = true
	req := client.CreateNameRequest{
		Name:   name,
		Gender: m.gender,
		Tags:   tags,
		Source: models.SourceManual,
	}
	c := m.client
	return m, func() tea.Msg {
		rec, err := c.CreateName(context.Background(), req)
		return nameCreatedMsg{rec: rec, err: err}
	}
}

func (m addModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("add a name") + "\n\n")

	rows := []struct {
		field addField
		label string
		value string
	}{
		{fieldName, "name", m.name},
		{fieldGender, "gender", genderStyle(m.gender).Render(string(m.gender)) + "  " + metaStyle.Render("(h/l to cycle)")},
		{fieldTags, "tags", m.tags},
	}

	for _, row := range rows {
		cursor := " "
		style := metaStyle
		value := row.value
		if row.field == m.focus {
			cursor = ">"
			style = selectedStyle
			if row.field != fieldGender {
				value += "█"
			}
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", cursor, style.Render(row.label), value)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString("  " + dimStyle.Render("adding..."))
	} else if m.status != "" {
		b.WriteString("  " + accentStyle.Render(m.status))
	} else {
		b.WriteString("  " + metaStyle.Render("tags are comma separated, more get derived from the name"))
	}

	return b.String()
}

func chopRune(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}
