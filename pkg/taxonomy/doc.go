// Package taxonomy scrapes the list of functional tags from Scryfall's
// tagger documentation page.
//
// The page groups tags under h2 headers. Headers marked "(functional)" are
// kept and their tag links are read from the search URL they point at:
//
//	groups, err := taxonomy.NewScraper("", "tagscrape/1.0", 30*time.Second).Scrape(ctx)
//	if err != nil {
//	    return err
//	}
//	return tags.Save("data/functional_tags.json", groups)
package taxonomy
