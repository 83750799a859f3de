package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"tagscrape/pkg/scraper"
)

// RunStartedMsg is sent when the build begins
type RunStartedMsg struct {
	Summary scraper.Summary
}

// TagStartedMsg is sent before a tag is fetched
type TagStartedMsg struct {
	Index int
	Total int
	Tag   string
}

// TagFinishedMsg is sent after a tag is merged or fails
type TagFinishedMsg struct {
	Result  scraper.TagResult
	Summary scraper.Summary
}

// CheckpointMsg is sent after a checkpoint write
type CheckpointMsg struct {
	Summary scraper.Summary
}

// BuildDoneMsg is sent when Run returns
type BuildDoneMsg struct {
	Summary scraper.Summary
	Err     error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		m.summary.Duration = time.Since(m.summary.StartedAt)
		return m, tickCmd()

	case RunStartedMsg:
		m.summary = msg.Summary
		m.addLogMessage("INFO", fmt.Sprintf("Building from %s tags, %s already done",
			humanize.Comma(int64(msg.Summary.TotalTags)), humanize.Comma(int64(msg.Summary.AlreadyProcessed))))
		return m, nil

	case TagStartedMsg:
		m.currentTag = msg.Tag
		m.currentIdx = msg.Index
		return m, nil

	case TagFinishedMsg:
		m.tagFinished(msg.Result, msg.Summary)
		return m, nil

	case CheckpointMsg:
		m.summary = msg.Summary
		m.addLogMessage("SUCCESS", fmt.Sprintf("Checkpoint saved (%s cards)", humanize.Comma(int64(msg.Summary.Cards))))
		return m, nil

	case BuildDoneMsg:
		m.summary = msg.Summary
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case LogMsg:
		m.addLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if !m.stopping {
			m.stopping = true
			m.addLogMessage("WARN", "Stopping after the current request, saving checkpoint")
			m.stop()
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = nil
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
