package topics

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// titles implements fuzzy.Source over topic titles.
type titles []Topic

func (ts titles) String(i int) string { return ts[i].Title }
func (ts titles) Len() int            { return len(ts) }

// Filter returns the topics whose title fuzzily matches query, best match
// first. An empty query returns topics unchanged.
func Filter(topics []Topic, query string) []Topic {
	if strings.TrimSpace(query) == "" {
		return topics
	}
	matches := fuzzy.FindFrom(query, titles(topics))
	out := make([]Topic, len(matches))
	for i, m := range matches {
		out[i] = topics[m.Index]
	}
	return out
}
