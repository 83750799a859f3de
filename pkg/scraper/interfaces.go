package scraper

import (
	"context"

	"tagscrape/pkg/checkpoint"
	"tagscrape/pkg/scryfall"
)

// PageFetcher performs one search page request
type PageFetcher interface {
	GetPage(ctx context.Context, url string) (*scryfall.SearchPage, error)
	Requests() int64
}

// Store persists build progress
type Store interface {
	Save(state *checkpoint.State) error
}

// Reporter receives progress events while a build runs
type Reporter interface {
	RunStarted(summary Summary)
	TagStarted(index, total int, tag string)
	TagFinished(result TagResult, summary Summary)
	CheckpointSaved(summary Summary)
}

type nopReporter struct{}

func (nopReporter) RunStarted(Summary)                 {}
func (nopReporter) TagStarted(int, int, string)        {}
func (nopReporter) TagFinished(TagResult, Summary)     {}
func (nopReporter) CheckpointSaved(Summary)            {}
