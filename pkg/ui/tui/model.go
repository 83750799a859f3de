package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"tagscrape/pkg/scraper"
)

// TagLine is one finished tag in the recent list
type TagLine struct {
	Tag   string
	Found int
	New   int
	Err   error
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
}

// Model is the dashboard state. It is only mutated from Update.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	summary    scraper.Summary
	currentTag string
	currentIdx int
	recent     []TagLine
	maxRecent  int

	logMessages    []LogMessage
	maxLogMessages int

	// stop asks the build to end; the dashboard quits once it reports done
	stop     func()
	stopping bool
	done     bool
	err      error

	width    int
	height   int
	showHelp bool
}

// NewModel creates a dashboard model. stop is called when the user asks
// to quit.
func NewModel(stop func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statsLabelStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	if stop == nil {
		stop = func() {}
	}

	return Model{
		spinner:        s,
		progress:       p,
		currentIdx:     -1,
		maxRecent:      8,
		maxLogMessages: 50,
		stop:           stop,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Percent returns the share of the tag list handled so far
func (m *Model) Percent() float64 {
	if m.summary.TotalTags == 0 {
		return 0
	}
	handled := m.summary.AlreadyProcessed + m.summary.Processed + m.summary.Failed
	return float64(handled) / float64(m.summary.TotalTags)
}

// Summary returns the latest run statistics
func (m *Model) Summary() scraper.Summary {
	return m.summary
}

// Stopping reports whether the user asked the build to stop
func (m *Model) Stopping() bool {
	return m.stopping
}

func (m *Model) tagFinished(r scraper.TagResult, s scraper.Summary) {
	m.summary = s
	m.currentTag = ""

	m.recent = append(m.recent, TagLine{Tag: r.Tag, Found: r.Found, New: r.New, Err: r.Err})
	if len(m.recent) > m.maxRecent {
		m.recent = m.recent[len(m.recent)-m.maxRecent:]
	}
	if r.Err != nil {
		m.addLogMessage("ERROR", "Failed: "+r.Tag+" - "+r.Err.Error())
	}
}

func (m *Model) addLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}
