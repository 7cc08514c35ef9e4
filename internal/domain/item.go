package domain

// ItemCondition is the marketplace item condition code (1..6).
type ItemCondition int

const (
	ItemConditionNew       ItemCondition = 1 // 新品、未使用
	ItemConditionLikeNew   ItemCondition = 2 // 未使用に近い
	ItemConditionExcellent ItemCondition = 3 // 目立った傷や汚れなし
	ItemConditionGood      ItemCondition = 4 // やや傷や汚れあり
	ItemConditionFair      ItemCondition = 5 // 傷や汚れあり
	ItemConditionPoor      ItemCondition = 6 // 全体的に状態が悪い
)

var ItemConditions = []ItemCondition{
	ItemConditionNew,
	ItemConditionLikeNew,
	ItemConditionExcellent,
	ItemConditionGood,
	ItemConditionFair,
	ItemConditionPoor,
}

func (c ItemCondition) GetConditionName() string {
	switch c {
	case ItemConditionNew:
		return "New, unused"
	case ItemConditionLikeNew:
		return "Like new"
	case ItemConditionExcellent:
		return "Used - Excellent"
	case ItemConditionGood:
		return "Used - Good"
	case ItemConditionFair:
		return "Used - Fair"
	case ItemConditionPoor:
		return "Used - Poor"
	default:
		return "Condition Unknown"
	}
}

// ShippingPayer is who pays the shipping fee.
type ShippingPayer int

const (
	ShippingPayerBuyer  ShippingPayer = 1 // 着払い(購入者負担)
	ShippingPayerSeller ShippingPayer = 2 // 送料込み(出品者負担)
)

// SearchResultItem is one listing returned by the marketplace search.
type SearchResultItem struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Price           int64         `json:"price"`
	ItemConditionID ItemCondition `json:"item_condition_id"`
}

// URL returns the public item page.
func (i SearchResultItem) URL() string {
	return ItemURL(i.ID)
}

// ItemURL builds the public item page for an item id.
func ItemURL(itemID string) string {
	return "https://jp.mercari.com/item/" + itemID
}

type SearchResult struct {
	TotalFound int                `json:"total_found"`
	Items      []SearchResultItem `json:"items"`
}
