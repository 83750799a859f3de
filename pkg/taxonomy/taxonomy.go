package taxonomy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	errs "tagscrape/pkg/errors"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/tags"
)

// DefaultURL is the documentation page listing every tagger tag
const DefaultURL = "https://scryfall.com/docs/tagger-tags"

const (
	encodedMarker = "oracletag%3A"
	plainMarker   = "oracletag:"
)

// tagLinkSelector matches search links in both the single and the double
// encoded form (oracletag%3A and oracletag%253A)
const tagLinkSelector = `a[href*="oracletag%3A"], a[href*="oracletag%253A"]`

var functionalMarker = regexp.MustCompile(`(?i)\s*\(functional\)\s*`)

// Scraper downloads the tagger-tags page and extracts functional tags
type Scraper struct {
	http   *resty.Client
	url    string
	logger logger.Logger
}

// NewScraper creates a scraper for pageURL, or DefaultURL when empty
func NewScraper(pageURL, userAgent string, timeout time.Duration) *Scraper {
	if pageURL == "" {
		pageURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/html")
	if userAgent != "" {
		httpClient.SetHeader("User-Agent", userAgent)
	}

	return &Scraper{
		http:   httpClient,
		url:    pageURL,
		logger: logger.GetLogger().WithField("component", "taxonomy"),
	}
}

// Scrape fetches the page and parses it
func (s *Scraper) Scrape(ctx context.Context) (tags.Groups, error) {
	start := time.Now()
	res, err := s.http.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "failed to fetch %s: %v", s.url, err)
	}
	logger.LogRequest(s.url, res.StatusCode(), time.Since(start))

	if res.IsError() {
		status := res.StatusCode()
		return nil, errs.New(errs.FromStatusCode(status), status, "unexpected status code: %d", status)
	}

	groups, err := Parse(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("Parsed functional tags", map[string]interface{}{
		"categories": len(groups),
		"tags":       groups.Count(),
	})
	return groups, nil
}

// Parse extracts functional tag groups from the tagger-tags HTML. Each h2
// whose text carries "(functional)" names a category; the first paragraph
// of search links after it, before the next h2, lists its tags.
func Parse(r io.Reader) (tags.Groups, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeParsing, 0, "failed to parse HTML: %v", err)
	}

	log := logger.GetLogger().WithField("component", "taxonomy")
	groups := make(tags.Groups)

	doc.Find("h2").Each(func(_ int, header *goquery.Selection) {
		text := header.Text()
		if !functionalMarker.MatchString(text) {
			return
		}
		category := strings.TrimSpace(functionalMarker.ReplaceAllString(text, " "))

		links := tagLinks(header)
		if links == nil {
			log.WarnWithFields("No tags paragraph found", map[string]interface{}{"category": category})
			return
		}

		var found []string
		links.Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			if tag := TagFromHref(href); tag != "" {
				found = append(found, tag)
			}
		})
		if len(found) == 0 {
			log.WarnWithFields("No tags found", map[string]interface{}{"category": category})
			return
		}

		sort.Strings(found)
		groups[category] = append(groups[category], found...)
		sort.Strings(groups[category])
	})

	return groups, nil
}

// tagLinks returns the tag anchors of the first qualifying paragraph after
// header, or nil
func tagLinks(header *goquery.Selection) *goquery.Selection {
	var links *goquery.Selection
	header.NextUntil("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "p"
	}).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		found := p.Find(tagLinkSelector)
		if found.Length() > 0 {
			links = found
			return false
		}
		return true
	})
	return links
}

// TagFromHref returns the tag named by a search link's q parameter, or ""
func TagFromHref(href string) string {
	link, err := url.Parse(href)
	if err != nil {
		return ""
	}
	query := link.Query().Get("q")
	if query == "" {
		return ""
	}

	if i := strings.Index(query, encodedMarker); i >= 0 {
		tag, err := url.QueryUnescape(query[i+len(encodedMarker):])
		if err != nil {
			return ""
		}
		return tag
	}
	if i := strings.Index(query, plainMarker); i >= 0 {
		return query[i+len(plainMarker):]
	}
	return ""
}

// Summary renders one "category: n tags" line per category, sorted
func Summary(groups tags.Groups) []string {
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		lines = append(lines, fmt.Sprintf("%s: %d tags", category, len(groups[category])))
	}
	return lines
}
