package domain

// SortKey is the search API sort field.
type SortKey string

const (
	SortScore       SortKey = "SORT_SCORE"
	SortCreatedTime SortKey = "SORT_CREATED_TIME"
	SortPrice       SortKey = "SORT_PRICE"
	SortNumLikes    SortKey = "SORT_NUM_LIKES"
)

// SortOrder is the search API sort direction.
type SortOrder string

const (
	OrderDesc SortOrder = "ORDER_DESC"
	OrderAsc  SortOrder = "ORDER_ASC"
)

// SearchParams is what actually gets forwarded to the search API.
// Brands are never forwarded.
type SearchParams struct {
	Query            string          `json:"query"`
	PriceMin         *int64          `json:"price_min,omitempty"`
	PriceMax         *int64          `json:"price_max,omitempty"`
	CategoryIDs      []string        `json:"categories,omitempty"`
	ItemConditionIDs []ItemCondition `json:"item_conditions,omitempty"`
	ShippingPayerIDs []ShippingPayer `json:"shipping_payer,omitempty"`
	Sort             SortKey         `json:"sort,omitempty"`
	Order            SortOrder       `json:"order,omitempty"`
}
