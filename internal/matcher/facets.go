package matcher

import (
	"fmt"
	"strings"

	"mercari/shopper/internal/domain"

	log "github.com/sirupsen/logrus"
)

var conditionAliases = map[string][]domain.ItemCondition{
	"new":               {domain.ItemConditionNew},
	"new, unused":       {domain.ItemConditionNew},
	"brand new":         {domain.ItemConditionNew},
	"unused":            {domain.ItemConditionNew},
	"sealed":            {domain.ItemConditionNew},
	"新品":                {domain.ItemConditionNew},
	"未使用":               {domain.ItemConditionNew},
	"新品、未使用":            {domain.ItemConditionNew},
	"新品未使用":             {domain.ItemConditionNew},
	"like new":          {domain.ItemConditionLikeNew},
	"nearly new":        {domain.ItemConditionLikeNew},
	"almost new":        {domain.ItemConditionLikeNew},
	"未使用に近い":            {domain.ItemConditionLikeNew},
	"used - excellent":  {domain.ItemConditionExcellent},
	"excellent":         {domain.ItemConditionExcellent},
	"no visible damage": {domain.ItemConditionExcellent},
	"目立った傷や汚れなし":        {domain.ItemConditionExcellent},
	"used - good":       {domain.ItemConditionGood},
	"good":              {domain.ItemConditionGood},
	"やや傷や汚れあり":          {domain.ItemConditionGood},
	"used - fair":       {domain.ItemConditionFair},
	"fair":              {domain.ItemConditionFair},
	"傷や汚れあり":            {domain.ItemConditionFair},
	"used - poor":       {domain.ItemConditionPoor},
	"poor":              {domain.ItemConditionPoor},
	"for parts":         {domain.ItemConditionPoor},
	"junk":              {domain.ItemConditionPoor},
	"ジャンク":              {domain.ItemConditionPoor},
	"全体的に状態が悪い":         {domain.ItemConditionPoor},
	"used":              {domain.ItemConditionExcellent, domain.ItemConditionGood, domain.ItemConditionFair, domain.ItemConditionPoor},
	"pre-owned":         {domain.ItemConditionExcellent, domain.ItemConditionGood, domain.ItemConditionFair, domain.ItemConditionPoor},
	"中古":                {domain.ItemConditionExcellent, domain.ItemConditionGood, domain.ItemConditionFair, domain.ItemConditionPoor},
}

var shippingPayerAliases = map[string]domain.ShippingPayer{
	"seller":            domain.ShippingPayerSeller,
	"free shipping":     domain.ShippingPayerSeller,
	"shipping included": domain.ShippingPayerSeller,
	"出品者":               domain.ShippingPayerSeller,
	"出品者負担":             domain.ShippingPayerSeller,
	"送料込み":              domain.ShippingPayerSeller,
	"buyer":             domain.ShippingPayerBuyer,
	"cash on delivery":  domain.ShippingPayerBuyer,
	"購入者":               domain.ShippingPayerBuyer,
	"購入者負担":             domain.ShippingPayerBuyer,
	"着払い":               domain.ShippingPayerBuyer,
}

var sortKeyAliases = map[string]domain.SortKey{
	"relevance":    domain.SortScore,
	"score":        domain.SortScore,
	"best match":   domain.SortScore,
	"おすすめ":         domain.SortScore,
	"newest":       domain.SortCreatedTime,
	"new":          domain.SortCreatedTime,
	"date":         domain.SortCreatedTime,
	"created":      domain.SortCreatedTime,
	"created_time": domain.SortCreatedTime,
	"新着":           domain.SortCreatedTime,
	"price":        domain.SortPrice,
	"価格":           domain.SortPrice,
	"likes":        domain.SortNumLikes,
	"popular":      domain.SortNumLikes,
	"popularity":   domain.SortNumLikes,
	"いいね":          domain.SortNumLikes,
}

var sortOrderAliases = map[string]domain.SortOrder{
	"asc":          domain.OrderAsc,
	"ascending":    domain.OrderAsc,
	"low to high":  domain.OrderAsc,
	"lowest first": domain.OrderAsc,
	"cheapest":     domain.OrderAsc,
	"安い順":          domain.OrderAsc,
	"desc":         domain.OrderDesc,
	"descending":   domain.OrderDesc,
	"high to low":  domain.OrderDesc,
	"highest":      domain.OrderDesc,
	"高い順":          domain.OrderDesc,
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MatchItemConditions resolves condition names to condition codes, deduplicated, in first-seen order.
func (m *Matcher) MatchItemConditions(names []string) ([]domain.ItemCondition, []domain.Warning) {
	out := make([]domain.ItemCondition, 0, len(names))
	seen := make(map[domain.ItemCondition]struct{})
	var warnings []domain.Warning

	for _, name := range names {
		codes, ok := conditionAliases[normalize(name)]
		if !ok || len(codes) == 0 {
			warnings = append(warnings, warn(SourceItemCondition, name,
				fmt.Sprintf("item condition %q is not recognized and will be ignored", name)))
			continue
		}

		for _, code := range codes {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}

	return out, warnings
}

// MatchShippingPayers resolves "seller"/"buyer" style names, deduplicated.
func (m *Matcher) MatchShippingPayers(names []string) ([]domain.ShippingPayer, []domain.Warning) {
	out := make([]domain.ShippingPayer, 0, len(names))
	seen := make(map[domain.ShippingPayer]struct{})
	var warnings []domain.Warning

	for _, name := range names {
		payer, ok := shippingPayerAliases[normalize(name)]
		if !ok {
			warnings = append(warnings, warn(SourceShippingPayer, name,
				fmt.Sprintf("shipping payer %q is not recognized and will be ignored", name)))
			continue
		}

		if _, dup := seen[payer]; dup {
			continue
		}
		seen[payer] = struct{}{}
		out = append(out, payer)
	}

	return out, warnings
}

// MatchSort maps free-text sort criteria. Empty input yields empty output without warnings.
func (m *Matcher) MatchSort(sortBy, sortOrder string) (domain.SortKey, domain.SortOrder, []domain.Warning) {
	var (
		key      domain.SortKey
		order    domain.SortOrder
		warnings []domain.Warning
	)

	if by := normalize(sortBy); by != "" {
		if k, ok := sortKeyAliases[by]; ok {
			key = k
		} else {
			warnings = append(warnings, warn(SourceSort, sortBy,
				fmt.Sprintf("sort criteria %q is not recognized and will be ignored", sortBy)))
		}
	}

	if o := normalize(sortOrder); o != "" {
		if v, ok := sortOrderAliases[o]; ok {
			order = v
		} else {
			warnings = append(warnings, warn(SourceSort, sortOrder,
				fmt.Sprintf("sort order %q is not recognized and will be ignored", sortOrder)))
		}
	}

	return key, order, warnings
}

func warn(source, name, message string) domain.Warning {
	log.WithField(source, name).Warn(message)
	return domain.Warning{Source: source, Name: name, Message: message}
}
