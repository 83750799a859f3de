package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const database = `id,name,labels
1,Opt,"draw,cantrip"
2,Brainstorm,"draw, cantrip ,card-selection"
3,Grizzly Bears,
4,Lightning Bolt,burn
5,Shock,"burn,draw"
`

func TestAnalyze(t *testing.T) {
	rep, err := Analyze(strings.NewReader(database))
	require.NoError(t, err)

	assert.Equal(t, 5, rep.TotalCards)
	assert.Equal(t, 4, rep.CardsWithTags)
	assert.Equal(t, 1, rep.CardsWithoutTags())
	assert.Equal(t, 8, rep.TotalOccurrences)
	assert.Equal(t, 4, rep.UniqueTags())
	assert.InDelta(t, 2.0, rep.Average(), 0.0001)

	assert.Equal(t, []TagCount{
		{"draw", 3},
		{"burn", 2},
		{"cantrip", 2},
		{"card-selection", 1},
	}, rep.Counts)

	assert.Equal(t, 75.0, rep.Percent(3))
	assert.Len(t, rep.Top(2), 2)
	assert.Len(t, rep.Top(50), 4)
}

func TestAnalyzeLegacyTagsColumn(t *testing.T) {
	rep, err := Analyze(strings.NewReader("id,tags\n1,ramp\n2,\"ramp,fog\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{"ramp", 2}, {"fog", 1}}, rep.Counts)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(strings.NewReader("id,name\n1,Opt\n"))
	assert.ErrorIs(t, err, ErrNoLabelsColumn)

	rep, err := Analyze(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.TotalCards)
	assert.Equal(t, Insights{}, rep.Insights())
}

func TestInsights(t *testing.T) {
	rep := &Report{
		CardsWithTags: 200,
		Counts: []TagCount{
			{"a", 50},
			{"b", 21},
			{"c", 20},
			{"d", 3},
			{"e", 1},
		},
	}

	in := rep.Insights()
	assert.Equal(t, 2, in.Common)
	assert.Equal(t, 1, in.Rare)
	assert.Equal(t, 20, in.Median)
	assert.Equal(t, 1, in.Singletons)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(0))
	assert.Equal(t, "", Bar(1.9))
	assert.Equal(t, "█████", Bar(10.5))
}

func TestRender(t *testing.T) {
	rep, err := Analyze(strings.NewReader(database))
	require.NoError(t, err)

	var buf bytes.Buffer
	Render(&buf, rep, 2)
	out := buf.String()

	assert.Contains(t, strings.ToLower(out), "tag frequency analysis")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "draw")
	assert.NotContains(t, out, "card-selection")
	assert.Contains(t, out, "Median tag frequency")
}

func TestFrequencyFile(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "cards_tag_frequency.txt"), FrequencyPath(filepath.Join("data", "cards.csv")))

	rep, err := Analyze(strings.NewReader(database))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cards_tag_frequency.txt")
	require.NoError(t, WriteFrequencyFile(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "MTG TAG FREQUENCY ANALYSIS\n"))
	assert.Contains(t, content, "Average tags per card: 2.00\n")
	assert.Contains(t, content, "Rank\tTag\tCount\t% of Cards\n1\tdraw\t3\t75.00%\n")
	assert.True(t, strings.HasSuffix(content, "4\tcard-selection\t1\t25.00%\n"))
}
