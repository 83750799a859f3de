package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tagscrape/pkg/carddb"
)

// legacyLabelsColumn is read when a database predates the labels column
const legacyLabelsColumn = "tags"

// ErrNoLabelsColumn is returned for a CSV without a labels or tags column
var ErrNoLabelsColumn = errors.New("csv has no labels column")

// TagCount is one label and the number of cards carrying it
type TagCount struct {
	Tag   string
	Count int
}

// Report holds label frequencies for a card database
type Report struct {
	TotalCards       int
	CardsWithTags    int
	TotalOccurrences int

	// Counts is ordered by count descending, then tag ascending
	Counts []TagCount
}

// Insights summarises the shape of the label distribution
type Insights struct {
	Common     int // on more than 10% of labelled cards
	Rare       int // on fewer than 1% of labelled cards
	Median     int
	Singletons int
}

// AnalyzeFile reads an exported card database and counts its labels
func AnalyzeFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Analyze(f)
}

// Analyze counts the comma separated labels of every row in r
func Analyze(r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Report{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	column := columnIndex(header, carddb.LabelsField)
	if column < 0 {
		column = columnIndex(header, legacyLabelsColumn)
	}
	if column < 0 {
		return nil, ErrNoLabelsColumn
	}

	rep := &Report{}
	counts := make(map[string]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rep.TotalCards+2, err)
		}

		rep.TotalCards++
		if column >= len(row) {
			continue
		}

		labels := SplitLabels(row[column])
		if len(labels) == 0 {
			continue
		}
		rep.CardsWithTags++
		for _, label := range labels {
			counts[label]++
			rep.TotalOccurrences++
		}
	}

	rep.Counts = make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		rep.Counts = append(rep.Counts, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(rep.Counts, func(i, j int) bool {
		if rep.Counts[i].Count != rep.Counts[j].Count {
			return rep.Counts[i].Count > rep.Counts[j].Count
		}
		return rep.Counts[i].Tag < rep.Counts[j].Tag
	})

	return rep, nil
}

// SplitLabels splits a labels cell on commas, dropping blanks
func SplitLabels(cell string) []string {
	var labels []string
	for _, part := range strings.Split(cell, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func columnIndex(header []string, name string) int {
	for i, column := range header {
		if strings.TrimSpace(column) == name {
			return i
		}
	}
	return -1
}

// CardsWithoutTags returns the number of rows with no labels
func (r *Report) CardsWithoutTags() int {
	return r.TotalCards - r.CardsWithTags
}

// UniqueTags returns the number of distinct labels
func (r *Report) UniqueTags() int {
	return len(r.Counts)
}

// Average returns labels per labelled card
func (r *Report) Average() float64 {
	if r.CardsWithTags == 0 {
		return 0
	}
	return float64(r.TotalOccurrences) / float64(r.CardsWithTags)
}

// Percent returns count as a percentage of labelled cards
func (r *Report) Percent(count int) float64 {
	if r.CardsWithTags == 0 {
		return 0
	}
	return float64(count) / float64(r.CardsWithTags) * 100
}

// Top returns the n most frequent labels
func (r *Report) Top(n int) []TagCount {
	if n < 0 || n > len(r.Counts) {
		n = len(r.Counts)
	}
	return r.Counts[:n]
}

// Insights computes the distribution summary
func (r *Report) Insights() Insights {
	var in Insights
	if len(r.Counts) == 0 {
		return in
	}

	common := float64(r.CardsWithTags) * 0.10
	rare := float64(r.CardsWithTags) * 0.01
	for _, tc := range r.Counts {
		if float64(tc.Count) > common {
			in.Common++
		}
		if float64(tc.Count) < rare {
			in.Rare++
		}
		if tc.Count == 1 {
			in.Singletons++
		}
	}
	in.Median = r.Counts[len(r.Counts)/2].Count

	return in
}

// FrequencyPath returns the path of the full frequency list written next to
// a database: data/cards.csv becomes data/cards_tag_frequency.txt
func FrequencyPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	stem := strings.TrimSuffix(filepath.Base(csvPath), ext)
	return filepath.Join(filepath.Dir(csvPath), stem+"_tag_frequency.txt")
}
