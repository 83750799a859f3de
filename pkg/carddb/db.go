package carddb

import (
	"fmt"
	"sort"
)

// DB accumulates cards keyed by id. It holds exactly one record per id and
// is owned by a single run; it is not safe for concurrent use.
type DB struct {
	records map[string]Record
}

// New creates an empty DB
func New() *DB {
	return &DB{records: make(map[string]Record)}
}

// FromSnapshot builds a DB from a persisted id -> record table. Records keep
// their keys; labels are normalized to a duplicate-free list.
func FromSnapshot(snapshot map[string]Record) (*DB, error) {
	db := New()
	for id, record := range snapshot {
		if record == nil {
			return nil, fmt.Errorf("record %q is null", id)
		}
		if record.ID() == "" {
			record["id"] = id
		} else if record.ID() != id {
			return nil, fmt.Errorf("record key %q does not match id %q", id, record.ID())
		}
		normalizeLabels(record)
		db.records[id] = record
	}
	return db, nil
}

// Merge adds label to the card's record, creating the record on first
// sight. Applying the same (card, label) pair twice changes nothing.
func (db *DB) Merge(card map[string]interface{}, label string) (bool, error) {
	id, err := CardID(card)
	if err != nil {
		return false, err
	}

	if existing, ok := db.records[id]; ok {
		if !existing.HasLabel(label) {
			existing[LabelsField] = append(existing.Labels(), label)
		}
		return false, nil
	}

	record, err := Flatten(card)
	if err != nil {
		return false, err
	}
	record[LabelsField] = []string{label}
	db.records[id] = record
	return true, nil
}

// Get returns the record for id
func (db *DB) Get(id string) (Record, bool) {
	r, ok := db.records[id]
	return r, ok
}

// Len returns the number of unique cards
func (db *DB) Len() int {
	return len(db.records)
}

// IDs returns all card ids in sorted order
func (db *DB) IDs() []string {
	ids := make([]string, 0, len(db.records))
	for id := range db.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns all records ordered by id
func (db *DB) Records() []Record {
	records := make([]Record, 0, len(db.records))
	for _, id := range db.IDs() {
		records = append(records, db.records[id])
	}
	return records
}

// Snapshot returns the id -> record table for persistence. The records are
// shared with the DB, so callers must not mutate them.
func (db *DB) Snapshot() map[string]Record {
	return db.records
}

// LabelCount returns the number of (card, label) pairs
func (db *DB) LabelCount() int {
	total := 0
	for _, r := range db.records {
		total += len(r.Labels())
	}
	return total
}
