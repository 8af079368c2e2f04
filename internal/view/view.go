// Package view derives the ordered, displayable product list from the
// catalog, the rating map and the filter criteria.
//
// Derive is pure: it never mutates its inputs and returns a fresh slice, so
// callers may invoke it on every keystroke and discard the result. Memo
// caches the last result for callers that re-derive with unchanged inputs.
package view

import (
	"sort"
	"strings"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

type stage func(model.Product) bool

// Derive filters products through the category, text search, price range,
// minimum rating and stock stages (each skipped at its neutral value) and
// sorts the survivors by criteria.SortBy. The sort is stable, so ties keep
// their catalog order.
func Derive(products []model.Product, ratings model.RatingMap, criteria model.FilterCriteria) []model.Product {
	criteria = criteria.Normalized()

	stages := stagesFor(ratings, criteria)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if keep(p, stages) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, less(out, ratings, criteria.SortBy))
	return out
}

func keep(p model.Product, stages []stage) bool {
	for _, s := range stages {
		if !s(p) {
			return false
		}
	}
	return true
}

func stagesFor(ratings model.RatingMap, c model.FilterCriteria) []stage {
	stages := make([]stage, 0, 5)

	if c.Category != model.AllCategories {
		stages = append(stages, func(p model.Product) bool {
			return p.Category == c.Category
		})
	}

	if c.SearchQuery != "" {
		q := strings.ToLower(c.SearchQuery)
		stages = append(stages, func(p model.Product) bool {
			return matchesQuery(p, q)
		})
	}

	// the price range always applies; its default is the full domain
	stages = append(stages, func(p model.Product) bool {
		return c.PriceRange.Contains(p.Price)
	})

	if c.MinRating != 0 {
		stages = append(stages, func(p model.Product) bool {
			return ratings.Average(p.ID) >= c.MinRating
		})
	}

	if c.InStockOnly {
		stages = append(stages, model.Product.InStock)
	}

	return stages
}

func matchesQuery(p model.Product, q string) bool {
	for _, field := range []string{p.Name, p.Brand, p.Category, p.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func less(ps []model.Product, ratings model.RatingMap, by model.SortBy) func(i, j int) bool {
	switch by {
	case model.SortPriceLow:
		return func(i, j int) bool { return ps[i].Price < ps[j].Price }
	case model.SortPriceHigh:
		return func(i, j int) bool { return ps[i].Price > ps[j].Price }
	case model.SortRating:
		return func(i, j int) bool { return ratings.Average(ps[i].ID) > ratings.Average(ps[j].ID) }
	case model.SortNewest:
		return func(i, j int) bool { return ps[i].CreatedAt > ps[j].CreatedAt }
	default:
		return func(i, j int) bool {
			if ps[i].Featured != ps[j].Featured {
				return ps[i].Featured
			}
			return ps[i].CreatedAt > ps[j].CreatedAt
		}
	}
}
