package scryfall

// SearchPage is one page of a card search. Cards are kept as raw JSON
// objects with numbers decoded as json.Number.
type SearchPage struct {
	Object     string                   `json:"object"`
	TotalCards int                      `json:"total_cards"`
	Data       []map[string]interface{} `json:"data"`
	HasMore    bool                     `json:"has_more"`
	NextPage   string                   `json:"next_page"`
}

// HasData reports whether the page carried a data array at all
func (p *SearchPage) HasData() bool {
	return p != nil && p.Data != nil
}

// Next returns the URL of the following page, or "" when this is the last one
func (p *SearchPage) Next() string {
	if p == nil || !p.HasMore {
		return ""
	}
	return p.NextPage
}
