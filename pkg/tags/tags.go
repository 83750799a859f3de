package tags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"tagscrape/pkg/storage"
)

// Groups maps a category to its functional tags
type Groups map[string][]string

// LoadError reports a tag file that is missing or unreadable. It is fatal
// to a build: nothing is fetched without a tag list.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load tags from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a grouped tag file and returns its tags in build order
func Load(path string) ([]string, error) {
	groups, err := LoadGroups(path)
	if err != nil {
		return nil, err
	}
	return Flatten(groups), nil
}

// LoadGroups reads a grouped tag file
func LoadGroups(path string) (Groups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var groups Groups
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&groups); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if groups == nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("expected a JSON object of tag lists")}
	}
	for category, list := range groups {
		for i, tag := range list {
			if strings.TrimSpace(tag) == "" {
				return nil, &LoadError{Path: path, Err: fmt.Errorf("category %q has an empty tag at index %d", category, i)}
			}
		}
	}

	return groups, nil
}

// Flatten orders categories by key and concatenates their tags, keeping
// the order within each category
func Flatten(groups Groups) []string {
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var all []string
	for _, category := range categories {
		all = append(all, groups[category]...)
	}
	return all
}

// Count returns the number of tags across all categories
func (g Groups) Count() int {
	total := 0
	for _, tags := range g {
		total += len(tags)
	}
	return total
}

// Save writes groups as indented JSON with sorted keys
func Save(path string, groups Groups) error {
	if err := storage.WriteJSON(path, groups); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}
