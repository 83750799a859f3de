package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tagscrape/pkg/carddb"

	_ "modernc.org/sqlite"
)

// Table names used by the SQLite export
const (
	CardsTable  = "cards"
	LabelsTable = "card_labels"
)

// WriteSQLite exports the database to a SQLite file at path. Cards go into
// CardsTable with one TEXT column per attribute, formatted as in the CSV;
// LabelsTable holds one (card_id, label) row per label. The file is built
// next to path and renamed into place. An empty database writes nothing.
func WriteSQLite(ctx context.Context, path string, db *carddb.DB) (int, error) {
	if db.Len() == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	records := db.Records()
	if err := buildSQLite(ctx, tmpPath, records); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to export %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}
	return len(records), nil
}

func buildSQLite(ctx context.Context, path string, records []carddb.Record) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	columns := sqliteColumns(Columns(records))

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema(columns) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	insertCard, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		CardsTable, strings.Join(quoted, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer insertCard.Close()

	insertLabel, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (card_id, label) VALUES (?, ?)", LabelsTable))
	if err != nil {
		return fmt.Errorf("failed to prepare label insert: %w", err)
	}
	defer insertLabel.Close()

	args := make([]interface{}, len(columns))
	for _, r := range records {
		for i, column := range columns {
			if v, ok := r[column]; ok && v != nil {
				args[i] = FormatValue(v)
			} else {
				args[i] = nil
			}
		}
		if _, err := insertCard.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", r.ID(), err)
		}
		for _, label := range r.Labels() {
			if _, err := insertLabel.ExecContext(ctx, r.ID(), label); err != nil {
				return fmt.Errorf("failed to insert label %s for %s: %w", label, r.ID(), err)
			}
		}
	}

	return tx.Commit()
}

func schema(columns []string) []string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
		if c == "id" {
			defs[i] += " PRIMARY KEY"
		}
	}

	return []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", CardsTable, strings.Join(defs, ", ")),
		fmt.Sprintf("CREATE TABLE %s (card_id TEXT NOT NULL REFERENCES %s(id), label TEXT NOT NULL, PRIMARY KEY (card_id, label))",
			LabelsTable, CardsTable),
		fmt.Sprintf("CREATE INDEX idx_%s_label ON %s(label)", LabelsTable, LabelsTable),
	}
}

// sqliteColumns drops columns whose names only differ by case from an
// earlier one, since SQLite identifiers are case-insensitive
func sqliteColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	kept := columns[:0:0]
	for _, c := range columns {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}
	return kept
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
