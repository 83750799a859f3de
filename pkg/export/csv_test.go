package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tagscrape/pkg/carddb"
)

func TestColumnsOrdering(t *testing.T) {
	records := []carddb.Record{
		{"id": "1", "zeta": "z", "name": "A", "labels": []string{"x"}, "artist": "B"},
		{"id": "2", "rarity": "rare", "cmc": json.Number("2.0"), "face_0_name": "F"},
	}

	assert.Equal(t,
		[]string{"id", "name", "labels", "cmc", "rarity", "artist", "face_0_name", "zeta"},
		Columns(records))
}

func TestWriteCSV(t *testing.T) {
	records := []carddb.Record{
		{"id": "1", "name": "Opt", "labels": []string{"draw", "cantrip"}, "cmc": json.Number("1.0"), "reserved": false},
		{"id": "2", "name": "Shock, the Bolt", "labels": []string{"burn"}, "loyalty": nil, "oracle_text": "line one\nline two"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, []string{"id", "name", "labels", "cmc", "oracle_text", "loyalty", "reserved"}, header)

	first := toMap(header, rows[1])
	assert.Equal(t, "draw,cantrip", first["labels"])
	assert.Equal(t, "1.0", first["cmc"])
	assert.Equal(t, "false", first["reserved"])
	assert.Equal(t, "", first["oracle_text"])

	second := toMap(header, rows[2])
	assert.Equal(t, "Shock, the Bolt", second["name"])
	assert.Equal(t, "line one\nline two", second["oracle_text"])
	assert.Equal(t, "", second["loyalty"])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "db.csv")

	n, err := WriteFile(path, carddb.New())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoFileExists(t, path)

	db := carddb.New()
	_, err = db.Merge(map[string]interface{}{"id": "b", "name": "Second"}, "ramp")
	require.NoError(t, err)
	_, err = db.Merge(map[string]interface{}{"id": "a", "name": "First"}, "ramp")
	require.NoError(t, err)

	n, err = WriteFile(path, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,labels\na,First,ramp\nb,Second,ramp\n", string(data))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, `["W","U"]`, FormatValue([]interface{}{"W", "U"}))
}

func toMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		m[h] = row[i]
	}
	return m
}
