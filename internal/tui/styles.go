package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"name-swiper/internal/models"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	yesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	noStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#b45555"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6")).
			Bold(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1e1e2a")).
			Padding(1, 4).
			Align(lipgloss.Center)

	genderColors = map[models.Gender]lipgloss.Color{
		models.GenderGirl:   lipgloss.Color("#f472b6"),
		models.GenderBoy:    lipgloss.Color("#60a5fa"),
		models.GenderUnisex: lipgloss.Color("#c084e0"),
	}
)

// genderStyle returns a colored style for a gender badge.
func genderStyle(g models.Gender) lipgloss.Style {
	if c, ok := genderColors[g]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// voteGlyph renders a short colored marker for a vote value.
func voteGlyph(v models.Vote) string {
	switch v {
	case models.VoteYes:
		return yesStyle.Render("✓")
	case models.VoteNo:
		return noStyle.Render("✗")
	case models.VoteFavorite:
		return favoriteStyle.Render("★")
	}
	return dimStyle.Render("·")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// renderTags joins tag badges into one dimmed line.
func renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = metaStyle.Render("[" + t + "]")
	}
	return strings.Join(parts, " ")
}

// truncateToHeight cuts a rendered body down to at most h lines.
func truncateToHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= h {
		return s
	}
	return strings.Join(lines[:h], "\n")
}

// progressBar renders "done/total" with a small bar, for the swipe header.
func progressBar(done, total, width int) string {
	if total == 0 {
		return metaStyle.Render("0/0")
	}
	if width < 10 {
		width = 10
	}
	filled := width * done / total
	bar := accentStyle.Render(strings.Repeat("━", filled)) +
		metaStyle.Render(strings.Repeat("━", width-filled))
	return fmt.Sprintf("%s %s", bar, metaStyle.Render(fmt.Sprintf("%d/%d", done, total)))
}
