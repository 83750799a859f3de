package carddb

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "tagscrape/pkg/errors"
)

func decodeCard(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var card map[string]interface{}
	require.NoError(t, decoder.Decode(&card))
	return card
}

func TestMergeNewAndExisting(t *testing.T) {
	db := New()
	card := decodeCard(t, `{"id":"a1","name":"Lightning Bolt","cmc":1.0}`)

	isNew, err := db.Merge(card, "burn")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = db.Merge(card, "removal")
	require.NoError(t, err)
	assert.False(t, isNew)

	record, ok := db.Get("a1")
	require.True(t, ok)
	assert.Equal(t, []string{"burn", "removal"}, record.Labels())
	assert.Equal(t, "Lightning Bolt", record["name"])
	assert.Equal(t, json.Number("1.0"), record["cmc"])
}

func TestMergeIsIdempotent(t *testing.T) {
	db := New()
	card := decodeCard(t, `{"id":"a1","name":"Opt"}`)

	for i := 0; i < 3; i++ {
		_, err := db.Merge(card, "draw")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, db.Len())
	record, _ := db.Get("a1")
	assert.Equal(t, []string{"draw"}, record.Labels())
}

func TestMergeKeepsOneRecordPerID(t *testing.T) {
	db := New()
	first := decodeCard(t, `{"id":"x","name":"First Print"}`)
	second := decodeCard(t, `{"id":"x","name":"Second Print"}`)

	_, err := db.Merge(first, "ramp")
	require.NoError(t, err)
	_, err = db.Merge(second, "draw")
	require.NoError(t, err)

	assert.Equal(t, 1, db.Len())
	record, _ := db.Get("x")
	assert.Equal(t, "First Print", record["name"])
	assert.Equal(t, []string{"ramp", "draw"}, record.Labels())
}

func TestMergeRejectsBadIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"name":"No Id"}`},
		{"empty id", `{"id":"  "}`},
		{"object id", `{"id":{"v":1}}`},
		{"null id", `{"id":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := New()
			_, err := db.Merge(decodeCard(t, tt.raw), "ramp")
			require.Error(t, err)
			assert.True(t, errs.IsType(err, errs.ErrorTypeParsing))
			assert.Equal(t, 0, db.Len())
		})
	}
}

func TestMergeNumericID(t *testing.T) {
	db := New()
	_, err := db.Merge(decodeCard(t, `{"id":42}`), "ramp")
	require.NoError(t, err)

	_, ok := db.Get("42")
	assert.True(t, ok)
}

func TestFlattenFacesAndBlobs(t *testing.T) {
	card := decodeCard(t, `{
		"id": "dfc",
		"name": "Delver of Secrets // Insectile Aberration",
		"colors": ["U"],
		"legalities": {"modern": "legal"},
		"card_faces": [
			{"name": "Delver of Secrets", "mana_cost": "{U}", "type_line": "Creature", "oracle_text": "Look at <the top>"},
			{"name": "Insectile Aberration", "type_line": "Creature", "oracle_text": "Flying"}
		],
		"reserved": false,
		"loyalty": null
	}`)

	record, err := Flatten(card)
	require.NoError(t, err)

	assert.NotContains(t, record, "card_faces")
	assert.Equal(t, "Delver of Secrets", record["face_0_name"])
	assert.Equal(t, "{U}", record["face_0_mana_cost"])
	assert.Equal(t, "Look at <the top>", record["face_0_oracle_text"])
	assert.Equal(t, "Insectile Aberration", record["face_1_name"])
	assert.Equal(t, "", record["face_1_mana_cost"])

	assert.Equal(t, `["U"]`, record["colors"])
	assert.Equal(t, `{"modern":"legal"}`, record["legalities"])
	assert.Equal(t, false, record["reserved"])
	assert.Contains(t, record, "loyalty")
	assert.Nil(t, record["loyalty"])
}

func TestFromSnapshotNormalizesLabels(t *testing.T) {
	snapshot := map[string]Record{
		"a": {"id": "a", "labels": []interface{}{"ramp", "draw", "ramp"}},
		"b": {"id": "b", "tags": []interface{}{"removal"}},
		"c": {"name": "keyed only"},
	}

	db, err := FromSnapshot(snapshot)
	require.NoError(t, err)

	a, _ := db.Get("a")
	assert.Equal(t, []string{"ramp", "draw"}, a.Labels())

	b, _ := db.Get("b")
	assert.Equal(t, []string{"removal"}, b.Labels())
	assert.NotContains(t, b, "tags")

	c, _ := db.Get("c")
	assert.Equal(t, "c", c.ID())
	assert.Equal(t, []string{}, c.Labels())

	assert.Equal(t, []string{"a", "b", "c"}, db.IDs())
	assert.Equal(t, 3, db.LabelCount())
}

func TestFromSnapshotRejectsMismatchedID(t *testing.T) {
	_, err := FromSnapshot(map[string]Record{"a": {"id": "b"}})
	assert.Error(t, err)
}

func TestMergeOrderIndependence(t *testing.T) {
	cards := map[string][]string{
		"ramp": {`{"id":"1"}`, `{"id":"2"}`},
		"draw": {`{"id":"2"}`, `{"id":"3"}`},
	}

	build := func(order []string) *DB {
		db := New()
		for _, label := range order {
			for _, raw := range cards[label] {
				_, err := db.Merge(decodeCard(t, raw), label)
				require.NoError(t, err)
			}
		}
		return db
	}

	forward := build([]string{"ramp", "draw"})
	backward := build([]string{"draw", "ramp"})

	require.Equal(t, forward.IDs(), backward.IDs())
	for _, id := range forward.IDs() {
		f, _ := forward.Get(id)
		b, _ := backward.Get(id)
		assert.ElementsMatch(t, f.Labels(), b.Labels())
	}
}
