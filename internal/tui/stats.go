package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
	"name-swiper/internal/services"
)

// analyticsLoadedMsg carries the dashboard fetch.
type analyticsLoadedMsg struct {
	analytics *services.Analytics
	err       error
}

type statsModel struct {
	client    *client.Client
	analytics *services.Analytics
	loading   bool
	err       error
}

func newStatsModel(c *client.Client) statsModel {
	return statsModel{client: c}
}

func (m statsModel) Init() tea.Cmd {
	m.loading = true
	c := m.client
	return func() tea.Msg {
		a, err := c.Analytics(context.Background())
		return analyticsLoadedMsg{analytics: a, err: err}
	}
}

func (m statsModel) Update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(analyticsLoadedMsg); ok {
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.analytics = msg.analytics
		}
	}
	return m, nil
}

func (m statsModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("catalog stats") + "\n\n")

	switch {
	case m.loading || m.analytics == nil && m.err == nil:
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != nil:
		b.WriteString("  " + errStyle.Render("error: "+m.err.Error()))
		return b.String()
	}

	a := m.analytics
	fmt.Fprintf(&b, "  %s %d\n", metaStyle.Render("names:"), a.TotalNames)
	fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("matches:"), matchStyle.Render(fmt.Sprintf("%d", a.Matches)))
	fmt.Fprintf(&b, "  %s %d\n", metaStyle.Render("added this week:"), a.RecentlyAdded)
	fmt.Fprintf(&b, "  %s %.1f\n", metaStyle.Render("avg length:"), a.AvgNameLength)
	fmt.Fprintf(&b, "  %s %d\n", metaStyle.Render("most common length:"), a.MostCommonLength)
	fmt.Fprintf(&b, "  %s %d\n\n", metaStyle.Render("with special chars:"), a.SpecialCharsCount)

	b.WriteString("  " + dimStyle.Render("by gender") + "\n")
	b.WriteString(countLines(a.ByGender))
	b.WriteString("\n  " + dimStyle.Render("by source") + "\n")
	b.WriteString(countLines(a.BySource))

	return b.String()
}

// countLines renders a count map sorted by key.
func countLines(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s %d\n", metaStyle.Render(k+":"), counts[k])
	}
	return b.String()
}
