package taxonomy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "tagscrape/pkg/errors"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/tags"
)

const taggerPage = `<!doctype html>
<html><body>
<h2>Card Art (artwork)</h2>
<p><a href="/search?q=arttag%3Adragon">dragon</a></p>

<h2>Removal (functional)</h2>
<p>Intro text without links.</p>
<div><p><a href="/search?q=oracletag%3Anested">ignored</a></p></div>
<p>
  <a href="/search?q=oracletag%3Aremoval-creature">removal-creature</a>
  <a href="/search?q=oracletag%3Aboard-wipe">board-wipe</a>
  <a href="/search?q=oracletag%253Acounterspell%2520soft">counterspell soft</a>
</p>
<p><a href="/search?q=oracletag%3Alater">later</a></p>

<h2>Mana (Functional)</h2>
<p><a href="/search?q=oracletag%3Aramp">ramp</a> <a href="/search?q=oracletag%3Aadds-mana">adds-mana</a></p>

<h2>Empty (functional)</h2>
<p>Nothing here.</p>
<h2>Next</h2>
<p><a href="/search?q=oracletag%3Aorphan">orphan</a></p>
</body></html>`

func TestParse(t *testing.T) {
	logger.SetLogger(logger.NewNopLogger())

	groups, err := Parse(strings.NewReader(taggerPage))
	require.NoError(t, err)

	assert.Equal(t, tags.Groups{
		"Removal": {"board-wipe", "counterspell soft", "removal-creature"},
		"Mana":    {"adds-mana", "ramp"},
	}, groups)
}

func TestParseDoubleEncodedParagraph(t *testing.T) {
	logger.SetLogger(logger.NewNopLogger())

	page := `<html><body>
<h2>Evasion (functional)</h2>
<p>See also the list below.</p>
<p>
  <a href="/search?q=oracletag%253Aevasion%2520flying">evasion flying</a>
  <a href="/search?q=oracletag%253Aunblockable">unblockable</a>
</p>
<p><a href="/search?q=oracletag%3Alater">later</a></p>
</body></html>`

	groups, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, tags.Groups{"Evasion": {"evasion flying", "unblockable"}}, groups)
}

func TestParseNoFunctionalSections(t *testing.T) {
	groups, err := Parse(strings.NewReader("<html><body><h2>Other</h2></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestTagFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/search?q=oracletag%3Aramp", "ramp"},
		{"https://scryfall.com/search?q=oracletag%253Aetb%2520trigger", "etb trigger"},
		{"/search?q=otag%3Aramp", ""},
		{"/search?order=name", ""},
		{"::not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, TagFromHref(tt.href))
		})
	}
}

func TestScrape(t *testing.T) {
	logger.SetLogger(logger.NewNopLogger())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tagscrape-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(taggerPage))
	}))
	defer server.Close()

	groups, err := NewScraper(server.URL, "tagscrape-test", time.Second).Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, groups.Count())
	assert.Equal(t, []string{"Mana: 2 tags", "Removal: 3 tags"}, Summary(groups))
}

func TestScrapeServerError(t *testing.T) {
	logger.SetLogger(logger.NewNopLogger())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewScraper(server.URL, "", time.Second).Scrape(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeServerError))
}
