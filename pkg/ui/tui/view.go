package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"tagscrape/pkg/ui"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, logoStyle.Width(m.width).Render(ui.ASCIILogo))

	half := (m.width - 4) / 2
	left := lipgloss.JoinVertical(lipgloss.Left, m.renderStatsPanel(half), m.renderCurrentPanel(half))
	right := lipgloss.JoinVertical(lipgloss.Left, m.renderRecentPanel(half), m.renderLogsPanel(half))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help, q to stop"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" BUILD STATS ")
	s := m.summary

	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", statsLabelStyle.Render(label), statsValueStyle.Render(value))
	}
	stats := []string{
		row("Elapsed:", ui.FormatDuration(s.Duration)),
		row("Tags done:", fmt.Sprintf("%s / %s",
			humanize.Comma(int64(s.AlreadyProcessed+s.Processed)), humanize.Comma(int64(s.TotalTags)))),
		row("Unique cards:", humanize.Comma(int64(s.Cards))),
		row("New this run:", humanize.Comma(int64(s.NewCards))),
		row("API requests:", humanize.Comma(s.Requests)),
		row("Checkpoints:", fmt.Sprintf("%d", s.Checkpoints)),
	}
	if s.Failed > 0 {
		stats = append(stats, errorStyle.Render(fmt.Sprintf("%d tags failed", s.Failed)))
	}
	if m.stopping {
		stats = append(stats, warningStyle.Render("STOPPING"))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(stats, "\n")),
	)
}

func (m *Model) renderCurrentPanel(width int) string {
	title := titleStyle.Render(" PROGRESS ")

	bar := m.progress
	bar.Width = width - 8
	if bar.Width < 10 {
		bar.Width = 10
	}

	current := dimStyle.Render("Waiting...")
	if m.currentTag != "" {
		current = fmt.Sprintf("%s %s %s",
			m.spinner.View(),
			statsLabelStyle.Render(fmt.Sprintf("[%d/%d]", m.currentIdx+1, m.summary.TotalTags)),
			statsValueStyle.Render(m.currentTag))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, current, bar.ViewAs(m.Percent())),
	)
}

func (m *Model) renderRecentPanel(width int) string {
	title := titleStyle.Render(" RECENT TAGS ")

	if len(m.recent) == 0 {
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("No tags finished yet")),
		)
	}

	lines := make([]string, 0, len(m.recent))
	for i := len(m.recent) - 1; i >= 0; i-- {
		line := m.recent[i]
		if line.Err != nil {
			lines = append(lines, errorStyle.Render("✗ "+line.Tag))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			successStyle.Render("✓"),
			line.Tag,
			dimStyle.Render(fmt.Sprintf("%s found, %s new", humanize.Comma(int64(line.Found)), humanize.Comma(int64(line.New))))))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")),
	)
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOGS ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	maxMsgLen := width - 25
	var logs []string
	for _, log := range m.logMessages[start:] {
		message := log.Message
		if maxMsgLen > 3 && len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}
		logs = append(logs, fmt.Sprintf("%s %s %s",
			logTimestampStyle.Render(log.Time.Format("15:04:05")),
			lipgloss.NewStyle().Foreground(levelColor(log.Level)).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level)),
			dimStyle.Render(message)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = dimStyle.Render("No logs yet...")
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/ctrl+c - Stop the build after the current request
    ctrl+l   - Clear logs
    ?        - Toggle this help

  The checkpoint is saved on stop; run the build again to resume.
`
	return panelStyle.Width(m.width).Render(help)
}
