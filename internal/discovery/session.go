// Package discovery owns one browsing session: the catalog, its rating
// aggregates and the filtered view derived from both.
package discovery

import (
	"context"
	"sync"

	"github.com/NischalAcharya060/GearZone-sub001/internal/catalog"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/rating"
	"github.com/NischalAcharya060/GearZone-sub001/internal/view"

	"github.com/rs/zerolog/log"
)

type Session struct {
	catalog   *catalog.Sync
	ratings   *rating.Aggregator
	pageLimit int
	memo      view.Memo

	refreshMu sync.Mutex

	mu       sync.RWMutex
	criteria model.FilterCriteria
}

func New(catalogSync *catalog.Sync, ratings *rating.Aggregator, pageLimit int) *Session {
	return &Session{
		catalog:   catalogSync,
		ratings:   ratings,
		pageLimit: pageLimit,
		criteria:  model.DefaultCriteria(),
	}
}

// Refresh reloads the catalog and then recomputes the rating map for it.
// Concurrent refreshes run one after the other. Only a failed catalog load
// is returned; a failed aggregation keeps the previous ratings.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if err := s.catalog.Load(ctx, s.pageLimit); err != nil {
		return err
	}

	products := s.catalog.Products()
	s.ratings.Aggregate(ctx, products)

	log.Info().Int("products", len(products)).Bool("staleRatings", s.ratings.Stale()).Msg("catalog refreshed")
	return nil
}

// View validates criteria, makes them the session's current criteria and
// returns the derived product list.
func (s *Session) View(criteria model.FilterCriteria) ([]model.Product, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	criteria = criteria.Normalized()

	s.mu.Lock()
	s.criteria = criteria
	s.mu.Unlock()

	return s.derive(criteria), nil
}

// Current derives the view for the last accepted criteria.
func (s *Session) Current() []model.Product {
	return s.derive(s.Criteria())
}

func (s *Session) derive(criteria model.FilterCriteria) []model.Product {
	products, catalogVersion := s.catalog.Snapshot()
	ratings, ratingsVersion := s.ratings.Snapshot()
	key := view.Key{
		CatalogVersion: catalogVersion,
		RatingsVersion: ratingsVersion,
		Criteria:       criteria,
	}
	return s.memo.Derive(key, products, ratings)
}

func (s *Session) Criteria() model.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Categories returns the category names for a picker, led by the "All"
// sentinel.
func (s *Session) Categories() []string {
	categories := s.catalog.Categories()
	names := make([]string, 0, len(categories)+1)
	names = append(names, model.AllCategories)
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

func (s *Session) Banners() []model.Banner {
	return s.catalog.Banners()
}

func (s *Session) Ratings() model.RatingMap {
	return s.ratings.Current()
}

func (s *Session) StaleRatings() bool {
	return s.ratings.Stale()
}

func (s *Session) Loading() bool {
	return s.catalog.Loading()
}
