package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
	"name-swiper/internal/models"
)

// namesLoadedMsg carries the catalog fetch for the lists view.
type namesLoadedMsg struct {
	names []models.NameRecord
	err   error
}

type listFilter int

const (
	filterAll listFilter = iota
	filterMatches
	filterMine
	filterFavorites
	numFilters
)

var filterLabels = [numFilters]string{"all", "matches", "my likes", "favorites"}

type listsModel struct {
	client  *client.Client
	user    string
	names   []models.NameRecord
	filter  listFilter
	gender  models.Gender // empty means all genders
	cursor  int
	status  string
	loading bool
	err     error
	height  int
}

func newListsModel(c *client.Client) listsModel {
	return listsModel{client: c}
}

func (m listsModel) Init() tea.Cmd {
	m.loading = true
	c := m.client
	return func() tea.Msg {
		names, err := c.ListNames(context.Background())
		return namesLoadedMsg{names: names, err: err}
	}
}

func (m listsModel) Update(msg tea.Msg) (listsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case namesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.names = msg.names
			if m.cursor >= len(m.visible()) {
				m.cursor = 0
			}
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "tab":
			m.filter = (m.filter + 1) % numFilters
			m.cursor = 0
		case "g":
			m.gender = nextGender(m.gender)
			m.cursor = 0
		case "j", "down":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "c":
			rows := m.visible()
			if m.cursor < len(rows) {
				name := rows[m.cursor].Name
				if err := clipboard.WriteAll(name); err != nil {
					m.status = "clipboard unavailable"
				} else {
					m.status = fmt.Sprintf("copied %q", name)
				}
			}
		}
	}
	return m, nil
}

// nextGender cycles all -> girl -> boy -> unisex -> all.
func nextGender(g models.Gender) models.Gender {
	switch g {
	case "":
		return models.GenderGirl
	case models.GenderGirl:
		return models.GenderBoy
	case models.GenderBoy:
		return models.GenderUnisex
	}
	return ""
}

// visible applies the active filters to the catalog.
func (m listsModel) visible() []models.NameRecord {
	var out []models.NameRecord
	for _, rec := range m.names {
		if m.gender != "" && rec.Gender != m.gender {
			continue
		}
		switch m.filter {
		case filterMatches:
			if !rec.IsAMatch {
				continue
			}
		case filterMine:
			v := rec.Votes[m.user]
			if v != models.VoteYes && v != models.VoteFavorite {
				continue
			}
		case filterFavorites:
			if rec.Votes[m.user] != models.VoteFavorite {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func (m listsModel) View() string {
	var b strings.Builder

	var tabs []string
	for f := listFilter(0); f < numFilters; f++ {
		label := filterLabels[f]
		if f == m.filter {
			tabs = append(tabs, selectedStyle.Render(label))
		} else {
			tabs = append(tabs, dimStyle.Render(label))
		}
	}
	line := "  " + strings.Join(tabs, metaStyle.Render(" │ "))
	if m.gender != "" {
		line += "   " + genderStyle(m.gender).Render(string(m.gender)+" only")
	}
	b.WriteString("\n" + line + "\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != nil:
		b.WriteString("  " + errStyle.Render("error: "+m.err.Error()))
		return b.String()
	}

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString("  " + dimStyle.Render("nothing here yet"))
		return b.String()
	}

	for i, rec := range rows {
		cursor := "  "
		style := dimStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%s %s", cursor, style.Render(rec.Name), genderStyle(rec.Gender).Render(string(rec.Gender)))
		voters := make([]string, 0, len(rec.Votes))
		for voter := range rec.Votes {
			voters = append(voters, voter)
		}
		sort.Strings(voters)
		var marks []string
		for _, voter := range voters {
			marks = append(marks, metaStyle.Render(voter[:1]+":")+voteGlyph(rec.Votes[voter]))
		}
		if len(marks) > 0 {
			line += "  " + strings.Join(marks, " ")
		}
		if rec.IsAMatch {
			line += "  " + matchStyle.Render("match")
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n  " + accentStyle.Render(m.status))
	}
	return b.String()
}
