package sections

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalOrder is the preferred order of résumé sections in recomposed output.
//
//nolint:gochecknoglobals // Fixed section ordering
var CanonicalOrder = []string{
	"summary",
	"experience",
	"skills",
	"education",
	"certifications",
	"projects",
	"publications",
	"awards",
	"languages",
	"interests",
}

// rule pairs a canonical section name with the predicate that claims a section key for it.
type rule struct {
	name    string
	matches func(key string) bool
}

// canonicalRules builds the ordered rule table from CanonicalOrder.
func canonicalRules() (rules []rule) {
	rules = make([]rule, 0, len(CanonicalOrder))
	for _, name := range CanonicalOrder {
		canonical := name
		rules = append(rules, rule{
			name: canonical,
			matches: func(key string) bool {
				return strings.Contains(strings.ToLower(key), canonical)
			},
		})
	}
	return rules
}

// IsCanonical reports whether key matches any canonical section name.
func IsCanonical(key string) (canonical bool) {
	for _, r := range canonicalRules() {
		if r.matches(key) {
			canonical = true
			return canonical
		}
	}
	return canonical
}

// Recompose joins sections into a single Markdown document.
//
// Each canonical slot emits the first unused key that matches it. Keys that match no canonical
// name follow in insertion order. Keys that match a canonical name but lost their slot to an
// earlier key are dropped. Sections with an empty body are skipped.
func Recompose(secs *Sections) (document string) {
	caser := cases.Title(language.English)
	used := make(map[string]bool)
	blocks := make([]string, 0, secs.Len())

	for _, r := range canonicalRules() {
		for _, key := range secs.Names() {
			if used[key] || !r.matches(key) {
				continue
			}
			used[key] = true
			body, _ := secs.Get(key)
			if block, ok := formatBlock(caser, key, body); ok {
				blocks = append(blocks, block)
			}
			break
		}
	}

	for _, key := range secs.Names() {
		if used[key] || IsCanonical(key) {
			continue
		}
		body, _ := secs.Get(key)
		if block, ok := formatBlock(caser, key, body); ok {
			blocks = append(blocks, block)
		}
	}

	document = strings.Join(blocks, "\n")
	return document
}

// formatBlock renders one section as a level-one header, a blank line and the trimmed body.
func formatBlock(caser cases.Caser, key, body string) (block string, ok bool) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block, ok
	}
	block = "# " + caser.String(key) + "\n\n" + trimmed + "\n"
	ok = true
	return block, ok
}
