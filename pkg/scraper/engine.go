package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tagscrape/pkg/checkpoint"
	errs "tagscrape/pkg/errors"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/scryfall"
)

// DefaultCheckpointInterval is how many newly processed tags pass between saves
const DefaultCheckpointInterval = 500

// RunState is the lifecycle of a build run
type RunState int

const (
	Idle RunState = iota
	Running
	Completed
	Aborted
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// Options configures an Engine
type Options struct {
	// BaseURL is the search API root used to build first-page URLs
	BaseURL string
	// CheckpointInterval saves after this many newly processed tags
	CheckpointInterval int
	Reporter           Reporter
	Logger             logger.Logger
}

// TagResult describes one processed tag
type TagResult struct {
	Tag      string
	Index    int
	Found    int
	New      int
	Updated  int
	Duration time.Duration
	Err      error
}

// Summary is a snapshot of run statistics
type Summary struct {
	State            RunState
	TotalTags        int
	AlreadyProcessed int
	Processed        int
	Failed           int
	FailedTags       []string
	Cards            int
	NewCards         int
	Requests         int64
	Checkpoints      int
	StartedAt        time.Time
	Duration         time.Duration
}

// Remaining returns the tags that were neither done before nor handled in this run
func (s Summary) Remaining() int {
	return s.TotalTags - s.AlreadyProcessed - s.Processed
}

// Engine walks the tag list, fetches every tag's cards, merges them into
// the state and checkpoints periodically. It owns the state it is given
// for the duration of a run.
type Engine struct {
	client   PageFetcher
	store    Store
	state    *checkpoint.State
	baseURL  string
	interval int
	reporter Reporter
	logger   logger.Logger

	runState      RunState
	requestsStart int64
}

// New creates an Engine over an existing state, typically loaded from a checkpoint
func New(client PageFetcher, store Store, state *checkpoint.State, opts Options) *Engine {
	if state == nil {
		state = checkpoint.NewState()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = scryfall.BaseURL
	}
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	return &Engine{
		client:   client,
		store:    store,
		state:    state,
		baseURL:  opts.BaseURL,
		interval: opts.CheckpointInterval,
		reporter: opts.Reporter,
		logger:   opts.Logger.WithField("component", "scraper"),
		runState: Idle,
	}
}

// State returns the engine's current lifecycle state
func (e *Engine) State() RunState {
	return e.runState
}

// Progress returns the accumulated build state
func (e *Engine) Progress() *checkpoint.State {
	return e.state
}

// FetchTag collects every card for tag, following next_page links until
// the API reports no more pages. A 404 means the tag matches nothing.
func (e *Engine) FetchTag(ctx context.Context, tag string) ([]map[string]interface{}, error) {
	var cards []map[string]interface{}
	url := scryfall.TagSearchURL(e.baseURL, tag)

	for page := 1; url != ""; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := e.client.GetPage(ctx, url)
		if errs.IsType(err, errs.ErrorTypeNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("page %d of %q: %w", page, tag, err)
		}
		if !result.HasData() {
			break
		}

		cards = append(cards, result.Data...)
		url = result.Next()

		e.logger.DebugWithFields("Fetched search page", map[string]interface{}{
			"tag":      tag,
			"page":     page,
			"cards":    len(result.Data),
			"has_more": url != "",
		})
	}

	return cards, nil
}

// ProcessTag fetches and merges one tag and marks it processed. On error
// the tag stays unprocessed so the next run retries it.
func (e *Engine) ProcessTag(ctx context.Context, index int, tag string) TagResult {
	start := time.Now()
	result := TagResult{Tag: tag, Index: index}

	cards, err := e.FetchTag(ctx, tag)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Found = len(cards)

	for _, card := range cards {
		isNew, err := e.state.Cards.Merge(card, tag)
		if err != nil {
			result.Err = fmt.Errorf("merge card for %q: %w", tag, err)
			result.Duration = time.Since(start)
			return result
		}
		if isNew {
			result.New++
		}
	}
	result.Updated = result.Found - result.New

	e.state.MarkProcessed(tag)
	result.Duration = time.Since(start)
	return result
}

// Run processes every tag not yet marked processed. Cancelling ctx stops
// the run between tags or pages; the state is saved and the run ends
// Aborted with a nil error. Only a failed checkpoint save is returned as
// an error.
func (e *Engine) Run(ctx context.Context, tags []string) (Summary, error) {
	tags = uniqueTags(tags)
	e.runState = Running
	e.requestsStart = e.client.Requests()

	summary := Summary{
		State:     Running,
		TotalTags: len(tags),
		StartedAt: time.Now(),
	}
	for _, tag := range tags {
		if e.state.IsProcessed(tag) {
			summary.AlreadyProcessed++
		}
	}
	startCards := e.state.Cards.Len()
	e.refresh(&summary, startCards)

	e.logger.InfoWithFields("Starting database build", map[string]interface{}{
		"tags":      summary.TotalTags,
		"done":      summary.AlreadyProcessed,
		"remaining": summary.Remaining(),
		"cards":     summary.Cards,
	})
	e.reporter.RunStarted(summary)

	for i, tag := range tags {
		if e.state.IsProcessed(tag) {
			continue
		}
		if ctx.Err() != nil {
			return e.abort(&summary, startCards)
		}

		e.reporter.TagStarted(i, len(tags), tag)
		result := e.ProcessTag(ctx, i, tag)

		if result.Err != nil {
			if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
				return e.abort(&summary, startCards)
			}

			summary.Failed++
			summary.FailedTags = append(summary.FailedTags, tag)
			e.logger.WithError(result.Err).WarnWithFields("Error processing tag", map[string]interface{}{
				"tag":   tag,
				"index": i + 1,
			})
			e.refresh(&summary, startCards)
			e.reporter.TagFinished(result, summary)
			continue
		}

		summary.Processed++
		e.refresh(&summary, startCards)
		e.logger.DebugWithFields("Tag processed", map[string]interface{}{
			"tag":     tag,
			"found":   result.Found,
			"new":     result.New,
			"updated": result.Updated,
		})
		e.reporter.TagFinished(result, summary)

		if summary.Processed%e.interval == 0 {
			if err := e.save(&summary, startCards); err != nil {
				return summary, err
			}
		}
	}

	if err := e.save(&summary, startCards); err != nil {
		return summary, err
	}

	e.runState = Completed
	summary.State = Completed
	e.logger.InfoWithFields("Database build complete", map[string]interface{}{
		"cards":     summary.Cards,
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"requests":  summary.Requests,
		"duration":  summary.Duration,
	})
	return summary, nil
}

// uniqueTags drops repeated tags, keeping the first occurrence
func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		unique = append(unique, tag)
	}
	return unique
}

func (e *Engine) abort(summary *Summary, startCards int) (Summary, error) {
	e.logger.Warn("Build interrupted, saving checkpoint")
	if err := e.save(summary, startCards); err != nil {
		return *summary, err
	}
	e.runState = Aborted
	summary.State = Aborted
	return *summary, nil
}

func (e *Engine) save(summary *Summary, startCards int) error {
	if err := e.store.Save(e.state); err != nil {
		e.runState = Aborted
		summary.State = Aborted
		e.logger.WithError(err).Error("Failed to save checkpoint")
		return fmt.Errorf("checkpoint save failed: %w", err)
	}
	summary.Checkpoints++
	e.refresh(summary, startCards)
	logger.LogTagProgress(e.logger, summary.AlreadyProcessed+summary.Processed, summary.TotalTags, summary.Cards)
	e.reporter.CheckpointSaved(*summary)
	return nil
}

func (e *Engine) refresh(summary *Summary, startCards int) {
	summary.Cards = e.state.Cards.Len()
	summary.NewCards = summary.Cards - startCards
	summary.Requests = e.client.Requests() - e.requestsStart
	summary.Duration = time.Since(summary.StartedAt)
}
