package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PageSize       = 12
	CategoryAll    = "all"
	paramCategory  = "category"
	paramMinPrice  = "minPrice"
	paramMaxPrice  = "maxPrice"
	paramSortBy    = "sortBy"
	paramSearch    = "search"
	paramPage      = "page"
	paramInStock   = "inStock"
	paramFeatured  = "featured"
	paramTags      = "tags"
	paramFlagValue = "true"
)

type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
	SortNameAZ       SortKey = "name-a-z"
	SortNameZA       SortKey = "name-z-a"
)

var sorts = map[SortKey]Sort{
	SortNewest:       {Field: FieldCreatedAt, Descending: true},
	SortOldest:       {Field: FieldCreatedAt},
	SortPriceLowHigh: {Field: FieldPrice},
	SortPriceHighLow: {Field: FieldPrice, Descending: true},
	SortNameAZ:       {Field: FieldName},
	SortNameZA:       {Field: FieldName, Descending: true},
}

// Params are the listing inputs after parsing. Zero values mean "not supplied".
type Params struct {
	Category string           `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	Search   string           `json:"search,omitempty"`
	SortBy   SortKey          `json:"sortBy,omitempty"`
	Page     int              `json:"page"`
	InStock  bool             `json:"inStock,omitempty"`
	Featured bool             `json:"featured,omitempty"`
	Tags     []string         `json:"tags,omitempty"`
}

// ParseParams reads listing parameters from a query string. Values that do not parse are treated
// as absent; flags only count when they equal "true".
func ParseParams(values url.Values) Params {
	params := Params{
		Category: strings.TrimSpace(values.Get(paramCategory)),
		MinPrice: parseDecimal(values.Get(paramMinPrice)),
		MaxPrice: parseDecimal(values.Get(paramMaxPrice)),
		Search:   strings.TrimSpace(values.Get(paramSearch)),
		SortBy:   SortKey(values.Get(paramSortBy)),
		Page:     1,
		InStock:  values.Get(paramInStock) == paramFlagValue,
		Featured: values.Get(paramFeatured) == paramFlagValue,
	}

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(paramPage))); err == nil && page > 1 {
		params.Page = page
	}

	for _, tag := range strings.Split(values.Get(paramTags), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			params.Tags = append(params.Tags, tag)
		}
	}

	return params
}

func parseDecimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// ResolveSort maps a sort key to its field. Unknown and empty keys sort newest first.
func ResolveSort(key SortKey) Sort {
	if s, ok := sorts[key]; ok {
		return s
	}
	return sorts[SortNewest]
}
