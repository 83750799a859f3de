package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tagscrape/pkg/scraper"
)

func TestModelBuildEvents(t *testing.T) {
	model := NewModel(nil)

	model.Update(RunStartedMsg{Summary: scraper.Summary{TotalTags: 4, AlreadyProcessed: 1}})
	assert.Len(t, model.logMessages, 1)

	model.Update(TagStartedMsg{Index: 1, Total: 4, Tag: "removal"})
	assert.Equal(t, "removal", model.currentTag)

	model.Update(TagFinishedMsg{
		Result:  scraper.TagResult{Tag: "removal", Index: 1, Found: 10, New: 10},
		Summary: scraper.Summary{TotalTags: 4, AlreadyProcessed: 1, Processed: 1, Cards: 10},
	})
	assert.Equal(t, "", model.currentTag)
	assert.Equal(t, 10, model.Summary().Cards)
	assert.InDelta(t, 0.5, model.Percent(), 0.0001)

	model.Update(TagFinishedMsg{
		Result:  scraper.TagResult{Tag: "ramp", Index: 2, Err: errors.New("server_error")},
		Summary: scraper.Summary{TotalTags: 4, AlreadyProcessed: 1, Processed: 1, Failed: 1, Cards: 10},
	})
	require.Len(t, model.recent, 2)
	assert.Error(t, model.recent[1].Err)
	assert.InDelta(t, 0.75, model.Percent(), 0.0001)

	model.Update(CheckpointMsg{Summary: scraper.Summary{TotalTags: 4, Cards: 10, Checkpoints: 1}})
	assert.Equal(t, 1, model.Summary().Checkpoints)

	_, cmd := model.Update(BuildDoneMsg{Summary: scraper.Summary{State: scraper.Completed}})
	assert.True(t, model.done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelStopKey(t *testing.T) {
	stops := 0
	model := NewModel(func() { stops++ })

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.Equal(t, 1, stops)
	assert.True(t, model.Stopping())
}

func TestModelRecentIsBounded(t *testing.T) {
	model := NewModel(nil)
	for i := 0; i < 20; i++ {
		model.Update(TagFinishedMsg{Result: scraper.TagResult{Tag: "t"}})
	}
	assert.Len(t, model.recent, model.maxRecent)
}

func TestView(t *testing.T) {
	model := NewModel(nil)
	assert.Equal(t, "Initializing...", model.View())

	model.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	model.Update(TagStartedMsg{Index: 0, Total: 2, Tag: "board-wipe"})
	model.Update(LogMsg{Level: "WARN", Message: "Rate limited"})

	view := model.View()
	assert.Contains(t, view, "BUILD STATS")
	assert.Contains(t, view, "board-wipe")
	assert.Contains(t, view, "Rate limited")
}

func TestParseLogLine(t *testing.T) {
	msg, ok := parseLogLine([]byte(`{"level":"warn","app":"tagscrape","tag":"ramp","error":"boom","message":"Error processing tag"}`))
	require.True(t, ok)
	assert.Equal(t, "WARN", msg.Level)
	assert.Equal(t, "Error processing tag [ramp]: boom", msg.Message)

	_, ok = parseLogLine([]byte("not json"))
	assert.False(t, ok)
}
