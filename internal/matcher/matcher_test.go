package matcher

import (
	"strings"
	"testing"

	"mercari/shopper/internal/catalog"
	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/translator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, catalogJSON string, lexicon map[string]string) *Matcher {
	t.Helper()
	c, err := catalog.Parse(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	return New(c, translator.FromMap(lexicon))
}

func TestMatchCategories_RelaxedMatching(t *testing.T) {
	m := newTestMatcher(t,
		`{"data":[{"name":"Shoes","id":"100"},{"name":"Bags","id":"101"}]}`,
		map[string]string{"shoes": "Shoes"},
	)

	ids, warnings := m.MatchCategories([]string{"shoes", "Bags", "Hats"})

	assert.Equal(t, []string{"100", "101"}, ids)
	require.Len(t, warnings, 1)
	assert.Equal(t, SourceCategory, warnings[0].Source)
	assert.Equal(t, "Hats", warnings[0].Name)
}

func TestMatchCategories_Empty(t *testing.T) {
	m := newTestMatcher(t, `{"data":[{"name":"Shoes","id":"100"}]}`, nil)

	ids, warnings := m.MatchCategories([]string{})
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Empty(t, warnings)

	ids, warnings = m.MatchCategories(nil)
	assert.Empty(t, ids)
	assert.Empty(t, warnings)
}

func TestMatchCategories_PreservesOrderAndNeverGrows(t *testing.T) {
	m := newTestMatcher(t,
		`{"data":[{"name":"家電・スマホ・カメラ","id":"7","child":[{"name":"家電","id":"72"}]},{"name":"漫画","id":"5"}]}`,
		map[string]string{"electronics": "家電", "manga": "漫画", "toys": "おもちゃ"},
	)

	inputs := [][]string{
		{"manga", "Electronics", "家電・スマホ・カメラ"},
		{"toys", "unknown", "MANGA"},
		{"nothing", "at", "all"},
		{"家電", "家電"},
		{"家電・スマホ・カメラ > 家電"},
	}
	wants := [][]string{
		{"5", "72", "7"},
		{"5"},
		{},
		{"72", "72"},
		{"72"},
	}

	for i, in := range inputs {
		ids, warnings := m.MatchCategories(in)
		assert.LessOrEqual(t, len(ids), len(in))
		assert.Equal(t, wants[i], ids)
		assert.Len(t, warnings, len(in)-len(ids))
	}
}

func TestMatchCategories_UntranslatedEnglishLookedUpVerbatim(t *testing.T) {
	m := newTestMatcher(t, `{"data":[{"name":"Bags","id":"101"}]}`, map[string]string{})

	ids, warnings := m.MatchCategories([]string{"Bags", "bags"})
	assert.Equal(t, []string{"101"}, ids)
	require.Len(t, warnings, 1)
	assert.Equal(t, "bags", warnings[0].Name)
}

func TestMatchCategories_EmptyCatalog(t *testing.T) {
	m := New(catalog.Empty(), translator.Default())

	ids, warnings := m.MatchCategories([]string{"electronics", "家電"})
	assert.Empty(t, ids)
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, "家電")
}

func TestMatchItemConditions(t *testing.T) {
	m := New(catalog.Empty(), translator.Default())

	got, warnings := m.MatchItemConditions([]string{"Like New", "新品、未使用", "mint-ish", "new"})
	assert.Equal(t, []domain.ItemCondition{domain.ItemConditionLikeNew, domain.ItemConditionNew}, got)
	require.Len(t, warnings, 1)
	assert.Equal(t, "mint-ish", warnings[0].Name)

	got, warnings = m.MatchItemConditions([]string{"used"})
	assert.Equal(t, []domain.ItemCondition{
		domain.ItemConditionExcellent,
		domain.ItemConditionGood,
		domain.ItemConditionFair,
		domain.ItemConditionPoor,
	}, got)
	assert.Empty(t, warnings)
}

func TestMatchShippingPayers(t *testing.T) {
	m := New(catalog.Empty(), translator.Default())

	got, warnings := m.MatchShippingPayers([]string{" Seller ", "送料込み", "buyer", "whoever"})
	assert.Equal(t, []domain.ShippingPayer{domain.ShippingPayerSeller, domain.ShippingPayerBuyer}, got)
	assert.Len(t, warnings, 1)
}

func TestMatchSort(t *testing.T) {
	m := New(catalog.Empty(), translator.Default())

	tests := []struct {
		by, order string
		wantKey   domain.SortKey
		wantOrder domain.SortOrder
		warnings  int
	}{
		{"price", "asc", domain.SortPrice, domain.OrderAsc, 0},
		{"Newest", "", domain.SortCreatedTime, "", 0},
		{"", "", "", "", 0},
		{"vibes", "sideways", "", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.by+"/"+tt.order, func(t *testing.T) {
			key, order, warnings := m.MatchSort(tt.by, tt.order)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantOrder, order)
			assert.Len(t, warnings, tt.warnings)
		})
	}
}
