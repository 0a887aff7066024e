package engine

import (
	"sort"
	"strings"

	"github.com/veracitylabs/veracity/internal/patterns"
)

// extractMarkers scans the text against one pattern collection and returns
// the unique matched surface strings, normalized to lower-cased trimmed
// form. The result is sorted so identical inputs yield identical output.
func extractMarkers(text string, pats []patterns.Pattern) []string {
	set := make(map[string]struct{})

	for _, p := range pats {
		for _, match := range p.Regexp.FindAllStringSubmatch(text, -1) {
			marker := representative(match)
			marker = strings.ToLower(strings.TrimSpace(marker))
			if marker != "" {
				set[marker] = struct{}{}
			}
		}
	}

	markers := make([]string, 0, len(set))
	for marker := range set {
		markers = append(markers, marker)
	}
	sort.Strings(markers)
	return markers
}

// representative picks the substring that stands for a match: the first
// non-empty captured group when the pattern has groups, otherwise the full
// match. A match whose groups are all empty contributes nothing.
func representative(match []string) string {
	if len(match) == 1 {
		return match[0]
	}
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
