// Package cleaner strips price and category phrases out of a free-text query,
// leaving the residual keywords used as the full-text search term.
package cleaner

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mercari/shopper/internal/catalog"
	"mercari/shopper/internal/translator"
)

const (
	number   = `\d+(?:,\d{3})*(?:\.\d+)?`
	currency = `(?:jpy\b|yen\b|円)`
	yenSign  = `[¥￥]?\s*`
)

// Order matters: explicit ranges go first so "between 1000 and 2000 yen" is removed whole.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbetween\s*` + yenSign + number + `\s*` + currency + `?\s*(?:and|to|-|~|〜)\s*` + yenSign + number + `\s*` + currency + `?`),
	regexp.MustCompile(`(?i)\bfrom\s*` + yenSign + number + `\s*` + currency + `?\s*(?:to|-|~|〜)\s*` + yenSign + number + `\s*` + currency + `?`),
	regexp.MustCompile(`(?i)\b(?:under|below|within|up\s+to|less\s+than|more\s+than|than|over|above|between|from|to|range|exactly|price\s+of)\b\s*` + yenSign + number + `\s*` + currency + `?`),
	regexp.MustCompile(yenSign + number + `(?:\s*円\s*(?:以下|以内|未満|以上|から|まで)|\s*(?:以下|以内|未満|以上))`),
}

var (
	leadingConnective  = `(?:\b(?:in|from|for|category|of)\b|品)`
	trailingConnective = `(?:category\b|カテゴリー|カテゴリ|の)?`
)

// Cleaner is immutable and safe for concurrent use.
type Cleaner struct {
	category *regexp.Regexp
}

// New builds the category phrase matcher from the lexicon (English keys and
// Japanese names) and every catalog name, lowercased.
func New(c *catalog.Catalog, l *translator.Lexicon) *Cleaner {
	names := make([]string, 0, l.Len()+c.Len())
	names = append(names, l.EnglishNames()...)
	names = append(names, l.JapaneseNames()...)
	for _, name := range c.Names() {
		names = append(names, strings.ToLower(name))
	}

	return &Cleaner{category: categoryRegexp(names)}
}

func categoryRegexp(names []string) *regexp.Regexp {
	unique := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			unique[name] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(unique))
	for name := range unique {
		sorted = append(sorted, name)
	}
	// Longest first: "electronics & gadgets" must win over "electronics".
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(sorted[i]), utf8.RuneCountInString(sorted[j])
		if li != lj {
			return li > lj
		}
		return sorted[i] < sorted[j]
	})

	alternatives := make([]string, len(sorted))
	for i, name := range sorted {
		alternatives[i] = regexp.QuoteMeta(name)
		if endsWithWordChar(name) {
			alternatives[i] += `\b`
		}
	}

	return regexp.MustCompile(`(?i)` + leadingConnective + `\s*(?:` + strings.Join(alternatives, "|") + `)\s*` + trailingConnective)
}

func endsWithWordChar(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r < utf8.RuneSelf && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Clean never fails. Clean(Clean(x)) == Clean(x) holds because passes repeat until nothing changes.
func (c *Cleaner) Clean(raw string) string {
	current := raw
	for {
		next := c.pass(current)
		if next == current {
			return next
		}
		current = next
	}
}

func (c *Cleaner) pass(s string) string {
	out := s
	for _, re := range pricePatterns {
		out = re.ReplaceAllString(out, "")
	}
	if c.category != nil {
		out = c.category.ReplaceAllString(out, "")
	}

	if out != s {
		out = strings.Join(strings.Fields(out), " ")
	}

	return trim(out)
}

// trim drops surrounding whitespace and trailing commas only.
func trim(s string) string {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || unicode.IsSpace(r)
	})
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
