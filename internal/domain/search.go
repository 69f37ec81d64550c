package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Search engines offered by the search bar. EngineLocal filters the document.
const (
	EngineLocal  = "local"
	EngineGoogle = "google"
	EngineBing   = "bing"
	EngineBaidu  = "baidu"
)

var engineURLs = map[string]string{
	EngineGoogle: "https://www.google.com/search?q=",
	EngineBing:   "https://www.bing.com/search?q=",
	EngineBaidu:  "https://www.baidu.com/s?wd=",
}

// FilterCategories keeps, per category, the links whose title or URL contains
// query (case-insensitive). Categories left without links are dropped.
// An empty query returns every category. The result never aliases categories.
func FilterCategories(categories []Category, query string) []Category {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if q == "" {
			out = append(out, c.clone())
			continue
		}
		var items []Link
		for _, l := range c.Items {
			if strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.URL), q) {
				items = append(items, l)
			}
		}
		if len(items) == 0 {
			continue
		}
		c.Items = items
		out = append(out, c)
	}
	return out
}

// SearchURL builds the web search URL for a remote engine.
func SearchURL(engine, query string) (string, error) {
	base, ok := engineURLs[engine]
	if !ok {
		return "", fmt.Errorf("unknown search engine %q", engine)
	}
	return base + url.QueryEscape(strings.TrimSpace(query)), nil
}
