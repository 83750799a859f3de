package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"tagscrape/pkg/carddb"
	"tagscrape/pkg/storage"
)

// Fields are the columns kept in a training sample, in output order
var Fields = []string{
	"id", "name", "mana_cost", "cmc", "type_line", "oracle_text",
	"colors", "color_identity", "keywords", "power", "toughness", "loyalty",
	carddb.LabelsField,
}

// previewWidth bounds the labels shown per card in a preview
const previewWidth = 80

// Row is one card restricted to Fields
type Row map[string]string

// Labelled reports whether the card carries any label
func (r Row) Labelled() bool {
	return strings.TrimSpace(r[carddb.LabelsField]) != ""
}

// Dataset is a database CSV reduced to Fields
type Dataset struct {
	Rows []Row
}

// ReadFile loads a database CSV
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read loads a database CSV from r. Missing columns read as empty; a legacy
// tags column stands in for labels.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.TrimSpace(column)] = i
	}
	if _, ok := index[carddb.LabelsField]; !ok {
		if i, ok := index["tags"]; ok {
			index[carddb.LabelsField] = i
		}
	}

	ds := &Dataset{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(ds.Rows)+2, err)
		}

		row := make(Row, len(Fields))
		for _, field := range Fields {
			if i, ok := index[field]; ok && i < len(record) {
				row[field] = record[i]
			} else {
				row[field] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// Len returns the number of cards
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Labelled returns the number of cards carrying labels
func (d *Dataset) Labelled() int {
	return CountLabelled(d.Rows)
}

// Sample draws n cards without replacement. When n exceeds the dataset it
// is clamped and clamped is true.
func (d *Dataset) Sample(n int, rng *rand.Rand) (rows []Row, clamped bool) {
	if n > len(d.Rows) {
		n = len(d.Rows)
		clamped = true
	}
	if n <= 0 {
		return nil, clamped
	}

	rows = make([]Row, n)
	for i, j := range rng.Perm(len(d.Rows))[:n] {
		rows[i] = d.Rows[j]
	}
	return rows, clamped
}

// NewRand returns a generator seeded with seed, or from the clock when nil
func NewRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1))
}

// CountLabelled returns the number of rows carrying labels
func CountLabelled(rows []Row) int {
	n := 0
	for _, row := range rows {
		if row.Labelled() {
			n++
		}
	}
	return n
}

// Write writes rows as CSV with a Fields header
func Write(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Fields); err != nil {
		return err
	}

	record := make([]string, len(Fields))
	for _, row := range rows {
		for i, field := range Fields {
			record[i] = row[field]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes rows to path atomically
func WriteFile(path string, rows []Row) error {
	return storage.WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, rows)
	})
}

// Preview renders up to n cards as two lines each
func Preview(rows []Row, n int) []string {
	if n > len(rows) {
		n = len(rows)
	}

	lines := make([]string, 0, n*2)
	for i, row := range rows[:n] {
		labels := row[carddb.LabelsField]
		if len([]rune(labels)) > previewWidth {
			labels = string([]rune(labels)[:previewWidth]) + "..."
		}
		lines = append(lines,
			fmt.Sprintf("%d. %s  |  %s  |  CMC %s", i+1, row["name"], row["type_line"], row["cmc"]),
			fmt.Sprintf("   Tags: %s", labels),
		)
	}
	return lines
}
