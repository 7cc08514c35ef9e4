// Package translator holds the static English to Japanese category lexicon.
package translator

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Entry maps one English category phrase to a Japanese category display name.
type Entry struct {
	English  string
	Japanese string
}

// Duplicate is an English phrase defined more than once. The later definition is used.
type Duplicate struct {
	English  string
	Previous string
	Japanese string
}

// Lexicon is immutable after construction and safe for concurrent reads.
type Lexicon struct {
	entries    map[string]string
	english    []string
	japanese   []string
	duplicates []Duplicate
}

// New builds a lexicon. Keys are lowercased; many English phrases may share one Japanese name.
func New(entries []Entry) *Lexicon {
	l := &Lexicon{entries: make(map[string]string, len(entries))}
	seenJapanese := make(map[string]struct{})

	for _, e := range entries {
		key := strings.ToLower(e.English)

		if prev, ok := l.entries[key]; ok {
			l.duplicates = append(l.duplicates, Duplicate{English: key, Previous: prev, Japanese: e.Japanese})
			log.WithFields(log.Fields{
				"english":  key,
				"previous": prev,
				"japanese": e.Japanese,
			}).Warn("Duplicate lexicon entry, later definition wins")
		} else {
			l.english = append(l.english, key)
		}
		l.entries[key] = e.Japanese

		if _, ok := seenJapanese[e.Japanese]; !ok {
			seenJapanese[e.Japanese] = struct{}{}
			l.japanese = append(l.japanese, e.Japanese)
		}
	}

	return l
}

// FromMap builds a lexicon from a plain map. Useful for tests and small custom tables.
func FromMap(m map[string]string) *Lexicon {
	entries := make([]Entry, 0, len(m))
	for en, ja := range m {
		entries = append(entries, Entry{English: en, Japanese: ja})
	}
	return New(entries)
}

// Translate lowercases name before lookup.
func (l *Lexicon) Translate(name string) (string, bool) {
	ja, ok := l.entries[strings.ToLower(name)]
	return ja, ok
}

// EnglishNames returns the distinct lowercase English phrases in definition order.
func (l *Lexicon) EnglishNames() []string {
	return append([]string(nil), l.english...)
}

// JapaneseNames returns every Japanese display name the lexicon can produce,
// including ones whose English key was later redefined.
func (l *Lexicon) JapaneseNames() []string {
	return append([]string(nil), l.japanese...)
}

func (l *Lexicon) Duplicates() []Duplicate {
	return append([]Duplicate(nil), l.duplicates...)
}

func (l *Lexicon) Len() int {
	return len(l.entries)
}
