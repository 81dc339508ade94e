package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const timeRounding = 10 * time.Millisecond

var (
	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
	quoteBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(1, 2)
	quoteStyle     = lipgloss.NewStyle().Italic(true)
	labelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
)

func (m *model) View() string {
	parts := []string{
		m.heroView(),
		m.quoteView(),
		m.resultView(),
		m.statusView(),
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	parts = append(parts, m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return joinNonEmpty([]string{
		heroTitleStyle.Render("Quotidian"),
		taglineStyle.Render(heroTagline),
	})
}

func (m *model) quoteView() string {
	switch {
	case m.quote != nil:
		body := quoteStyle.Render(wordwrap.String(m.quote.Display(), m.wrapWidth()))
		return quoteBoxStyle.Render(body)
	case m.quoteLoading:
		return helperStyle.Render(fmt.Sprintf("%s Fetching a quote…", m.spinner.View()))
	case m.quoteError != "":
		return errorStyle.Render(m.quoteError)
	default:
		return helperStyle.Render("No quote loaded yet.")
	}
}

func (m *model) resultView() string {
	switch {
	case m.elaborating:
		return helperStyle.Render(fmt.Sprintf("%s Waiting for the model…", m.spinner.View()))
	case m.elaborateError != "":
		return errorStyle.Render(m.elaborateError)
	case m.result != nil && m.quote != nil:
		label := labelStyle.Render(m.result.Mode.Label(m.quote.Author))
		body := wordwrap.String(m.result.Content, m.wrapWidth())
		return label + "\n" + body
	default:
		return ""
	}
}

func (m *model) statusView() string {
	lines := []string{}
	if m.quote != nil && m.quoteError != "" {
		// Refresh failed while an older quote is still on screen.
		lines = append(lines, errorStyle.Render(m.quoteError))
	}
	if m.infoMessage != "" {
		lines = append(lines, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(lines)
}

func (m *model) helpView() string {
	rows := []struct{ key, desc string }{
		{"e", "explain the quote"},
		{"c", "continue it in the author's voice"},
		{"s", "summarize the author's philosophy"},
		{"v", "draft an image prompt"},
		{"r", "fetch a new quote"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteRune('\n')
		}
		b.WriteString(keyStyle.Render(row.key))
		b.WriteRune(' ')
		b.WriteString(keyDescStyle.Render(row.desc))
	}
	return b.String()
}

func (m *model) footerView() string {
	if len(m.activity) == 0 {
		return helperStyle.Render("Press ? for keys.")
	}
	lines := make([]string, 0, len(m.activity))
	for _, snapshot := range m.activity {
		line := fmt.Sprintf("%s %s", snapshot.ID, snapshot.Status)
		if snapshot.Status != flowStatusRunning {
			line += fmt.Sprintf(" in %s", snapshot.Duration.Round(timeRounding))
		}
		lines = append(lines, activityStyle.Render(line))
	}
	return joinNonEmpty(lines)
}

func (m *model) wrapWidth() int {
	width := m.width - 8
	if width < 20 {
		width = 20
	}
	return width
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			filtered = append(filtered, part)
		}
	}
	return strings.Join(filtered, "\n\n")
}
