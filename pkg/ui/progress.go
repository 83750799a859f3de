package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"tagscrape/pkg/scraper"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// TagProgress prints per-tag build progress. It implements scraper.Reporter.
type TagProgress struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	started time.Time
}

// NewTagProgress creates a progress printer. When verbose is false, only
// a single progress line is kept up to date on a terminal.
func NewTagProgress(out io.Writer, verbose bool) *TagProgress {
	if out == nil {
		out = Output
	}
	return &TagProgress{
		out:     out,
		verbose: verbose,
		started: time.Now(),
	}
}

// RunStarted prints the build header
func (p *TagProgress) RunStarted(s scraper.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = s.StartedAt
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintln(p.out, Cyan("Starting MTG Card Database Build"))
	fmt.Fprintln(p.out, rule)
	fmt.Fprintf(p.out, "Start time:       %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.out, "Tags to process:  %s\n", humanize.Comma(int64(s.TotalTags)))
	fmt.Fprintf(p.out, "Already done:     %s\n", humanize.Comma(int64(s.AlreadyProcessed)))
	fmt.Fprintf(p.out, "Remaining:        %s\n", humanize.Comma(int64(s.Remaining())))
	fmt.Fprintf(p.out, "%s\n\n", rule)
}

// TagStarted announces a tag
func (p *TagProgress) TagStarted(index, total int, tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "\n%s Processing tag: '%s'\n", Magenta(fmt.Sprintf("[%d/%d]", index+1, total)), tag)
}

// TagFinished prints the tag's outcome and overall progress
func (p *TagProgress) TagFinished(r scraper.TagResult, s scraper.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	percent := Percent(r.Index+1, s.TotalTags)
	if !p.verbose {
		fmt.Fprintf(p.out, "\r%s [%s] %d/%d • %s cards • %s",
			Green("[BUILDING]"),
			Bar(percent, 20),
			r.Index+1,
			s.TotalTags,
			humanize.Comma(int64(s.Cards)),
			FormatDuration(time.Since(p.started)),
		)
		if s.Failed > 0 {
			fmt.Fprintf(p.out, " • %s", Red(fmt.Sprintf("%d failed", s.Failed)))
		}
		return
	}

	if r.Err != nil {
		fmt.Fprintf(p.out, "   %s Error processing tag '%s': %v\n", Red("✗"), r.Tag, r.Err)
		return
	}
	fmt.Fprintf(p.out, "   Found %s cards\n", humanize.Comma(int64(r.Found)))
	fmt.Fprintf(p.out, "   New: %s | Updated: %s\n", humanize.Comma(int64(r.New)), humanize.Comma(int64(r.Updated)))
	fmt.Fprintf(p.out, "   Total cards in DB: %s\n", humanize.Comma(int64(s.Cards)))
	fmt.Fprintf(p.out, "   %s %.1f%% | Elapsed: %s | ETA: %s\n",
		Dim("Progress:"), percent, FormatDuration(time.Since(p.started)), p.eta(s))
}

// CheckpointSaved notes a checkpoint write
func (p *TagProgress) CheckpointSaved(s scraper.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "   %s\n", Dim(fmt.Sprintf("Checkpoint saved (%s cards)", humanize.Comma(int64(s.Cards)))))
}

// eta extrapolates the time left from the tags handled so far this run
func (p *TagProgress) eta(s scraper.Summary) string {
	handled := s.Processed + s.Failed
	if handled == 0 {
		return "calculating..."
	}
	left := s.TotalTags - s.AlreadyProcessed - handled
	if left <= 0 {
		return FormatDuration(0)
	}
	perTag := time.Since(p.started) / time.Duration(handled)
	return FormatDuration(perTag * time.Duration(left))
}

// Percent returns done as a percentage of total
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// Bar renders a fixed width progress bar for a percentage
func Bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
