package domain

// ExtractedParameters is the typed form of the LLM parameter extraction response.
// Categories holds raw names as decoded and catalog ids after matching; nil means null.
type ExtractedParameters struct {
	Query          string   `json:"query"`
	PriceMin       *float64 `json:"price_min" validate:"omitempty,gte=0"`
	PriceMax       *float64 `json:"price_max" validate:"omitempty,gte=0"`
	Categories     []string `json:"categories"`
	Brands         []string `json:"brands"`
	ItemConditions []string `json:"item_conditions"`
	ShippingPayer  []string `json:"shipping_payer"`
	SortBy         string   `json:"sort_by,omitempty"`
	SortOrder      string   `json:"sort_order,omitempty"`
}

// RecommendationEntry is one ranked listing returned by the recommendation round-trip.
type RecommendationEntry struct {
	ItemName      string  `json:"item_name" validate:"required"`
	ItemPrice     float64 `json:"item_price" validate:"gte=0"`
	ItemCondition string  `json:"item_condition"`
	ItemID        string  `json:"item_id" validate:"required"`
	Reason        string  `json:"reason"`
}

func (r RecommendationEntry) URL() string {
	return ItemURL(r.ItemID)
}

// Recommendations is the recommendation response envelope.
// A missing "recommendations" key decodes to a nil pointer.
type Recommendations struct {
	Recommendations *[]RecommendationEntry `json:"recommendations"`
}
