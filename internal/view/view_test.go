package view

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(hours int) model.Timestamp {
	return model.TimestampOf(t0.Add(time.Duration(hours) * time.Hour))
}

func ids(ps []model.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func assertIDs(t *testing.T, got []model.Product, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v want %v", g, want)
		}
	}
}

func criteria(mod func(*model.FilterCriteria)) model.FilterCriteria {
	c := model.DefaultCriteria()
	if mod != nil {
		mod(&c)
	}
	return c
}

func catalog() []model.Product {
	return []model.Product{
		{ID: "helmet", Name: "Carbon Helmet", Brand: "Shoei", Category: "Helmets", Price: 450, Stock: 3, Featured: true, CreatedAt: at(1)},
		{ID: "gloves", Name: "Summer Gloves", Brand: "Alpinestars", Category: "Gloves", Price: 60, Stock: 0, CreatedAt: at(5)},
		{ID: "jacket", Name: "Touring Jacket", Brand: "Rev'It", Category: "Jackets", Price: 320, Stock: 1, CreatedAt: at(3), Description: "Waterproof membrane"},
		{ID: "boots", Name: "Adventure Boots", Brand: "Sidi", Category: "Boots", Price: 280, Stock: 4, Featured: true, CreatedAt: at(4)},
		{ID: "visor", Name: "Tinted Visor", Brand: "Shoei", Category: "Helmets", Price: 60, Stock: 9, CreatedAt: at(2)},
	}
}

func TestScenarioFeaturedAndPriceLow(t *testing.T) {
	products := []model.Product{
		{ID: "1", Price: 100, Featured: true, CreatedAt: at(1)},
		{ID: "2", Price: 50, Featured: false, CreatedAt: at(2)},
	}

	assertIDs(t, Derive(products, nil, criteria(nil)), "1", "2")
	assertIDs(t, Derive(products, nil, criteria(func(c *model.FilterCriteria) { c.SortBy = model.SortPriceLow })), "2", "1")
}

func TestScenarioMinRating(t *testing.T) {
	products := []model.Product{{ID: "1", Price: 10}, {ID: "2", Price: 10}}
	ratings := model.RatingMap{
		"1": {AverageRating: 4.5, ReviewCount: 2},
		"2": {AverageRating: 3.9, ReviewCount: 7},
	}

	got := Derive(products, ratings, criteria(func(c *model.FilterCriteria) { c.MinRating = 4 }))
	assertIDs(t, got, "1")
}

func TestCategoryStage(t *testing.T) {
	got := Derive(catalog(), nil, criteria(func(c *model.FilterCriteria) { c.Category = "Helmets" }))
	assertIDs(t, got, "helmet", "visor")

	all := Derive(catalog(), nil, criteria(nil))
	if len(all) != len(catalog()) {
		t.Fatalf("the All sentinel must skip the category stage")
	}
}

func TestSearchStageIsCaseInsensitiveAcrossFields(t *testing.T) {
	cases := map[string][]string{
		"SHOEI":      {"helmet", "visor"},
		"waterproof": {"jacket"},
		"boots":      {"boots"},
		"gloves":     {"gloves"},
		"nothing":    {},
	}
	for q, want := range cases {
		got := Derive(catalog(), nil, criteria(func(c *model.FilterCriteria) {
			c.SearchQuery = q
			c.SortBy = model.SortNewest
		}))
		if len(got) != len(want) {
			t.Fatalf("query %q: got %v want %v", q, ids(got), want)
		}
		for _, id := range want {
			found := false
			for _, p := range got {
				found = found || p.ID == id
			}
			if !found {
				t.Fatalf("query %q: missing %s in %v", q, id, ids(got))
			}
		}
	}
}

func TestPriceRangeIsInclusive(t *testing.T) {
	got := Derive(catalog(), nil, criteria(func(c *model.FilterCriteria) {
		c.PriceRange = model.PriceRange{60, 280}
		c.SortBy = model.SortPriceLow
	}))
	assertIDs(t, got, "gloves", "visor", "boots")
}

func TestStockStage(t *testing.T) {
	got := Derive(catalog(), nil, criteria(func(c *model.FilterCriteria) {
		c.InStockOnly = true
		c.SortBy = model.SortNewest
	}))
	assertIDs(t, got, "boots", "jacket", "visor", "helmet")
}

func TestSortKeys(t *testing.T) {
	ratings := model.RatingMap{
		"helmet": {AverageRating: 4.8, ReviewCount: 10},
		"jacket": {AverageRating: 4.1, ReviewCount: 3},
		"boots":  {AverageRating: 4.8, ReviewCount: 1},
	}

	cases := []struct {
		by   model.SortBy
		want []string
	}{
		{model.SortPriceLow, []string{"gloves", "visor", "boots", "jacket", "helmet"}},
		{model.SortPriceHigh, []string{"helmet", "jacket", "boots", "gloves", "visor"}},
		// ties keep catalog order: helmet before boots, gloves before visor
		{model.SortRating, []string{"helmet", "boots", "jacket", "gloves", "visor"}},
		{model.SortNewest, []string{"gloves", "boots", "jacket", "visor", "helmet"}},
		{model.SortFeatured, []string{"boots", "helmet", "gloves", "jacket", "visor"}},
		{"", []string{"boots", "helmet", "gloves", "jacket", "visor"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.by), func(t *testing.T) {
			got := Derive(catalog(), ratings, criteria(func(c *model.FilterCriteria) { c.SortBy = tc.by }))
			assertIDs(t, got, tc.want...)
		})
	}
}

func TestNewestNormalisesMixedCreatedAt(t *testing.T) {
	var fromString, fromObject model.Timestamp
	if err := fromString.UnmarshalJSON([]byte(`"2024-01-01T05:00:00Z"`)); err != nil {
		t.Fatal(err)
	}
	if err := fromObject.UnmarshalJSON([]byte(fmt.Sprintf(`{"seconds": %d, "nanoseconds": 0}`, t0.Add(6*time.Hour).Unix()))); err != nil {
		t.Fatal(err)
	}

	products := []model.Product{
		{ID: "native", CreatedAt: at(4)},
		{ID: "string", CreatedAt: fromString},
		{ID: "object", CreatedAt: fromObject},
	}
	got := Derive(products, nil, criteria(func(c *model.FilterCriteria) { c.SortBy = model.SortNewest }))
	assertIDs(t, got, "object", "string", "native")
}

func randomCatalog(r *rand.Rand, n int) ([]model.Product, model.RatingMap) {
	categories := []string{"Helmets", "Gloves", "Boots"}
	products := make([]model.Product, n)
	ratings := model.RatingMap{}
	for i := range products {
		id := fmt.Sprintf("p%d", i)
		products[i] = model.Product{
			ID:        id,
			Name:      fmt.Sprintf("Item %d", r.Intn(5)),
			Category:  categories[r.Intn(len(categories))],
			Price:     float64(r.Intn(500)),
			Stock:     r.Intn(3),
			Featured:  r.Intn(2) == 0,
			CreatedAt: at(r.Intn(10)),
		}
		if r.Intn(3) > 0 {
			ratings[id] = model.RatingAggregate{AverageRating: float64(r.Intn(51)) / 10, ReviewCount: 1}
		}
	}
	return products, ratings
}

func randomCriteria(r *rand.Rand) model.FilterCriteria {
	sorts := []model.SortBy{model.SortFeatured, model.SortNewest, model.SortPriceLow, model.SortPriceHigh, model.SortRating}
	categories := []string{model.AllCategories, "Helmets", "Gloves", "Boots"}
	lo := float64(r.Intn(300))
	return model.FilterCriteria{
		Category:    categories[r.Intn(len(categories))],
		SearchQuery: []string{"", "item 1", "ITEM", "zzz"}[r.Intn(4)],
		PriceRange:  model.PriceRange{lo, lo + float64(r.Intn(300))},
		MinRating:   float64(r.Intn(6)),
		InStockOnly: r.Intn(2) == 0,
		SortBy:      sorts[r.Intn(len(sorts))],
	}
}

func TestPropertiesSubsetIdempotentFeaturedOrder(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		products, ratings := randomCatalog(r, 30)
		c := randomCriteria(r)

		first := Derive(products, ratings, c)
		second := Derive(products, ratings, c)

		// subset by identity, no duplicates
		known := map[string]int{}
		for _, p := range products {
			known[p.ID]++
		}
		for _, p := range first {
			if known[p.ID] != 1 {
				t.Fatalf("iteration %d: %s is not a distinct member of the catalog", i, p.ID)
			}
			known[p.ID]--
		}

		// idempotent and order-stable
		if fmt.Sprint(ids(first)) != fmt.Sprint(ids(second)) {
			t.Fatalf("iteration %d: derive is not idempotent", i)
		}

		if c.SortBy == model.SortFeatured {
			for j := 1; j < len(first); j++ {
				prev, cur := first[j-1], first[j]
				if !prev.Featured && cur.Featured {
					t.Fatalf("iteration %d: featured product after a non-featured one", i)
				}
				if prev.Featured == cur.Featured && prev.CreatedAt < cur.CreatedAt {
					t.Fatalf("iteration %d: equal-featured products not newest first", i)
				}
			}
		}
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	products := catalog()
	before := fmt.Sprint(ids(products))
	Derive(products, nil, criteria(func(c *model.FilterCriteria) { c.SortBy = model.SortPriceLow }))
	if fmt.Sprint(ids(products)) != before {
		t.Fatalf("input order changed")
	}
}

func TestMemo(t *testing.T) {
	var m Memo
	products := catalog()
	key := Key{CatalogVersion: 1, RatingsVersion: 1, Criteria: criteria(nil)}

	first := m.Derive(key, products, nil)
	second := m.Derive(key, products, nil)
	if m.Hits() != 1 {
		t.Fatalf("expected a cache hit, got %d", m.Hits())
	}
	if &first[0] != &second[0] {
		t.Fatalf("cached result must be reused")
	}

	// criteria that only differ in their neutral spelling share the entry
	key.Criteria.SortBy = ""
	m.Derive(key, products, nil)
	if m.Hits() != 2 {
		t.Fatalf("normalised criteria must hit, got %d", m.Hits())
	}

	key.CatalogVersion = 2
	third := m.Derive(key, products[:2], nil)
	if len(third) != 2 {
		t.Fatalf("new catalog version must recompute")
	}

	key.Criteria.SearchQuery = "carbon"
	if got := m.Derive(key, products, nil); len(got) != 1 {
		t.Fatalf("criteria change must recompute, got %v", ids(got))
	}
}
