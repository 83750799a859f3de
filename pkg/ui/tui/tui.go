package tui

import (
	"bytes"
	"encoding/json"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"tagscrape/pkg/scraper"
)

// TUI is a full screen build dashboard. It implements scraper.Reporter and
// io.Writer, so it can receive both engine events and JSON log lines.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a dashboard. stop is called when the user presses q.
func NewTUI(stop func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(stop)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	return &TUI{
		program: tea.NewProgram(&model, opts...),
		model:   &model,
	}
}

// Start runs the dashboard until Done is called. It blocks.
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop quits the dashboard immediately
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// RunStarted implements scraper.Reporter
func (t *TUI) RunStarted(s scraper.Summary) {
	t.Send(RunStartedMsg{Summary: s})
}

// TagStarted implements scraper.Reporter
func (t *TUI) TagStarted(index, total int, tag string) {
	t.Send(TagStartedMsg{Index: index, Total: total, Tag: tag})
}

// TagFinished implements scraper.Reporter
func (t *TUI) TagFinished(r scraper.TagResult, s scraper.Summary) {
	t.Send(TagFinishedMsg{Result: r, Summary: s})
}

// CheckpointSaved implements scraper.Reporter
func (t *TUI) CheckpointSaved(s scraper.Summary) {
	t.Send(CheckpointMsg{Summary: s})
}

// Done reports the end of the build and closes the dashboard
func (t *TUI) Done(s scraper.Summary, err error) {
	t.Send(BuildDoneMsg{Summary: s, Err: err})
}

// Write accepts zerolog JSON lines and shows them in the log panel
func (t *TUI) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimSpace(p), []byte("\n")) {
		if msg, ok := parseLogLine(line); ok {
			t.Send(msg)
		}
	}
	return len(p), nil
}

func parseLogLine(line []byte) (LogMsg, bool) {
	var entry struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		Tag     string `json:"tag"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(line, &entry); err != nil || entry.Message == "" {
		return LogMsg{}, false
	}

	message := entry.Message
	if entry.Tag != "" {
		message += " [" + entry.Tag + "]"
	}
	if entry.Error != "" {
		message += ": " + entry.Error
	}
	return LogMsg{Level: strings.ToUpper(entry.Level), Message: message}, true
}
