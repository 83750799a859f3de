package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"tagscrape/pkg/carddb"
	"tagscrape/pkg/storage"
)

// PriorityColumns lead the header in this order when present
var PriorityColumns = []string{
	"id", "name", carddb.LabelsField, "mana_cost", "cmc",
	"type_line", "oracle_text", "colors", "set", "rarity",
}

// Columns returns the union of all record keys: priority columns first,
// then the rest alphabetically
func Columns(records []carddb.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for key := range r {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for _, key := range PriorityColumns {
		if seen[key] {
			columns = append(columns, key)
			delete(seen, key)
		}
	}

	rest := make([]string, 0, len(seen))
	for key := range seen {
		rest = append(rest, key)
	}
	sort.Strings(rest)

	return append(columns, rest...)
}

// WriteCSV writes records as CSV with the header from Columns. Missing
// values are written as empty cells.
func WriteCSV(w io.Writer, records []carddb.Record) error {
	columns := Columns(records)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, r := range records {
		for i, column := range columns {
			row[i] = FormatValue(r[column])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID(), err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile exports the database to path atomically. It returns the number
// of rows written; an empty database writes nothing.
func WriteFile(path string, db *carddb.DB) (int, error) {
	if db.Len() == 0 {
		return 0, nil
	}

	records := db.Records()
	err := storage.WriteFileAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to export %s: %w", path, err)
	}
	return len(records), nil
}

// FormatValue renders a record value as a CSV cell
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case map[string]interface{}, []interface{}:
		blob, err := carddb.Blob(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return blob
	default:
		return fmt.Sprint(v)
	}
}
