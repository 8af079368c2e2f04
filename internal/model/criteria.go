package model

import (
	"math"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
)

// AllCategories disables the category stage.
const AllCategories = "All"

const MaxRating = 5

type SortBy string

const (
	SortFeatured  SortBy = "featured"
	SortNewest    SortBy = "newest"
	SortPriceLow  SortBy = "price-low"
	SortPriceHigh SortBy = "price-high"
	SortRating    SortBy = "rating"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortFeatured, SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

// PriceRange is an inclusive [min, max] bound.
type PriceRange [2]float64

func (r PriceRange) Min() float64 { return r[0] }
func (r PriceRange) Max() float64 { return r[1] }

func (r PriceRange) Contains(price float64) bool {
	return price >= r[0] && price <= r[1]
}

// FullPriceRange covers every non-negative price.
var FullPriceRange = PriceRange{0, math.MaxFloat64}

type FilterCriteria struct {
	Category    string     `json:"category"`
	SearchQuery string     `json:"searchQuery"`
	PriceRange  PriceRange `json:"priceRange"`
	MinRating   float64    `json:"minRating"`
	InStockOnly bool       `json:"inStockOnly"`
	SortBy      SortBy     `json:"sortBy"`
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:   AllCategories,
		PriceRange: FullPriceRange,
		SortBy:     SortFeatured,
	}
}

// Normalized maps the empty category and sort key to their neutral values.
func (c FilterCriteria) Normalized() FilterCriteria {
	if c.Category == "" {
		c.Category = AllCategories
	}
	if c.SortBy == "" {
		c.SortBy = SortFeatured
	}
	return c
}

func (c FilterCriteria) Validate() error {
	lo, hi := c.PriceRange.Min(), c.PriceRange.Max()
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return ierr.Invalid("priceRange", "bounds must be numbers")
	}
	if lo < 0 {
		return ierr.Invalid("priceRange", "min must not be negative")
	}
	if lo > hi {
		return ierr.Invalid("priceRange", "min must not exceed max")
	}
	if math.IsNaN(c.MinRating) || c.MinRating < 0 || c.MinRating > MaxRating {
		return ierr.Invalid("minRating", "must be within [0, 5]")
	}
	if c.SortBy != "" && !c.SortBy.Valid() {
		return ierr.Invalid("sortBy", "unknown sort key "+string(c.SortBy))
	}
	return nil
}
