package scryfall

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the public Scryfall API
	BaseURL = "https://api.scryfall.com"

	// SearchEndpoint is the full-text card search
	SearchEndpoint = "/cards/search"

	// OracleTagPrefix selects cards by functional (oracle) tag
	OracleTagPrefix = "otag:"
)

// TagSearchURL builds the first search page URL for a functional tag
func TagSearchURL(baseURL, tag string) string {
	params := url.Values{}
	params.Set("q", OracleTagPrefix+tag)

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), SearchEndpoint, params.Encode())
}
