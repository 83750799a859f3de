package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"tagscrape/pkg/scraper"
)

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return nil
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevColor := Output, colorEnabled
	Output = &buf
	SetColor(false)
	t.Cleanup(func() {
		Output = prevOut
		colorEnabled = prevColor
	})
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintError("fetch failed", errors.New("boom"))
	PrintInfo("Output", "data/db.csv")
	PrintWarning("slow down")

	assert.Equal(t, "fetch failed: boom\nOutput: data/db.csv\nslow down\n", buf.String())
}

func TestColorize(t *testing.T) {
	captureOutput(t)

	assert.Equal(t, "plain", Red("plain"))
	SetColor(true)
	assert.Equal(t, "\033[31mred\033[0m", Red("red"))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░", Bar(0, 4))
	assert.Equal(t, "██░░", Bar(50, 4))
	assert.Equal(t, "████", Bar(150, 4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "3m5s", FormatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "2h7m", FormatDuration(2*time.Hour+7*time.Minute))
}

func TestTagProgressVerbose(t *testing.T) {
	captureOutput(t)
	var buf bytes.Buffer
	p := NewTagProgress(&buf, true)

	summary := scraper.Summary{TotalTags: 4, AlreadyProcessed: 1, StartedAt: time.Now()}
	p.RunStarted(summary)
	p.TagStarted(1, 4, "removal")

	summary.Processed = 1
	summary.Cards = 1200
	p.TagFinished(scraper.TagResult{Tag: "removal", Index: 1, Found: 1500, New: 1200, Updated: 300}, summary)
	p.TagFinished(scraper.TagResult{Tag: "ramp", Index: 2, Err: errors.New("server_error")}, summary)
	p.CheckpointSaved(summary)

	out := buf.String()
	assert.Contains(t, out, "Remaining:        3")
	assert.Contains(t, out, "[2/4] Processing tag: 'removal'")
	assert.Contains(t, out, "Found 1,500 cards")
	assert.Contains(t, out, "New: 1,200 | Updated: 300")
	assert.Contains(t, out, "Progress: 50.0%")
	assert.Contains(t, out, "Error processing tag 'ramp': server_error")
	assert.Contains(t, out, "Checkpoint saved (1,200 cards)")
}

func TestTagProgressCompact(t *testing.T) {
	captureOutput(t)
	var buf bytes.Buffer
	p := NewTagProgress(&buf, false)

	p.TagStarted(0, 2, "removal")
	p.TagFinished(scraper.TagResult{Tag: "removal", Index: 0}, scraper.Summary{TotalTags: 2, Cards: 10, Failed: 1})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\r[BUILDING]"))
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "1 failed")
	assert.NotContains(t, out, "Processing tag")
}

func TestRenderBuildSummary(t *testing.T) {
	captureOutput(t)
	var buf bytes.Buffer

	failed := make([]string, 12)
	for i := range failed {
		failed[i] = "tag" + string(rune('a'+i))
	}
	RenderBuildSummary(&buf, scraper.Summary{
		State:      scraper.Completed,
		TotalTags:  20,
		Processed:  8,
		Failed:     12,
		FailedTags: failed,
		Cards:      12345,
		Requests:   40,
	}, "data/db.csv")

	out := buf.String()
	assert.Contains(t, strings.ToLower(out), "database build complete")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "8 / 20")
	assert.Contains(t, out, "data/db.csv")
	assert.Contains(t, out, "... and 2 more")
}

func TestNotifyBuild(t *testing.T) {
	buf := captureOutput(t)
	sender := &recordingSender{}
	n := NewNotifierWithSender(sender)

	n.NotifyBuild(scraper.Summary{State: scraper.Completed, Processed: 3, Cards: 2000})
	n.NotifyBuild(scraper.Summary{State: scraper.Aborted})

	assert.Equal(t, []string{"Build complete", "Build interrupted"}, sender.titles)
	assert.Contains(t, buf.String(), "2,000 cards from 3 tags")
}

func TestPrintResumeNotice(t *testing.T) {
	buf := captureOutput(t)
	PrintResumeNotice("data/ckpt.json")
	assert.Contains(t, buf.String(), "Progress saved to: data/ckpt.json")
}

func TestPlatformSender(t *testing.T) {
	assert.NotNil(t, platformSender("linux"))
	assert.NotNil(t, platformSender("darwin"))
	assert.NotNil(t, platformSender("windows"))
	assert.Nil(t, platformSender("plan9"))

	mac := platformSender("darwin").(commandSender)
	cmd := mac.build(`Build "done"`, "3 cards")
	assert.Equal(t, []string{"osascript", "-e", `display notification "3 cards" with title "Build \"done\""`}, cmd.Args)
}
