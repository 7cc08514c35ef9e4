// Package matcher resolves free-text parameter names extracted by the LLM to
// marketplace identifiers. It never fails: names that cannot be resolved are
// dropped and reported as warnings (relaxed matching).
package matcher

import (
	"fmt"

	"mercari/shopper/internal/catalog"
	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/translator"

	log "github.com/sirupsen/logrus"
)

const (
	SourceCategory      = "category"
	SourceItemCondition = "item_condition"
	SourceShippingPayer = "shipping_payer"
	SourceSort          = "sort"
)

type Matcher struct {
	catalog *catalog.Catalog
	lexicon *translator.Lexicon
}

func New(c *catalog.Catalog, l *translator.Lexicon) *Matcher {
	return &Matcher{
		catalog: c,
		lexicon: l,
	}
}

// MatchCategories resolves names in input order. The result may be shorter
// than names; callers must not assume positional correspondence.
func (m *Matcher) MatchCategories(names []string) ([]string, []domain.Warning) {
	ids := make([]string, 0, len(names))
	var warnings []domain.Warning

	for _, name := range names {
		key := name
		japanese, translated := m.lexicon.Translate(name)
		if translated {
			key = japanese
		}

		id, ok := m.lookup(key)
		if !ok {
			w := domain.Warning{
				Source:  SourceCategory,
				Name:    name,
				Message: unmatchedCategoryMessage(name, japanese, translated),
			}
			warnings = append(warnings, w)
			log.WithField("category", name).Warn(w.Message)
			continue
		}

		ids = append(ids, id)
	}

	return ids, warnings
}

func (m *Matcher) lookup(key string) (string, bool) {
	if id, ok := m.catalog.Lookup(key); ok {
		return id, true
	}
	return m.catalog.LookupPath(key)
}

func unmatchedCategoryMessage(name, japanese string, translated bool) string {
	if translated {
		return fmt.Sprintf("category %q (Japanese: %q) does not match any known category and will be ignored", name, japanese)
	}
	return fmt.Sprintf("category %q does not match any known category and will be ignored", name)
}
