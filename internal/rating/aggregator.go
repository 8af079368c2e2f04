// Package rating derives per-product rating aggregates from review records.
package rating

import (
	"context"
	"errors"
	"sync"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/review"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Aggregator struct {
	reviews review.IRepository
	limit   int

	mu      sync.RWMutex
	current model.RatingMap
	version uint64
	stale   bool
}

// New returns an aggregator issuing at most limit review queries at once.
// A limit <= 0 leaves the fan-out unbounded.
func New(reviews review.IRepository, limit int) *Aggregator {
	return &Aggregator{
		reviews: reviews,
		limit:   limit,
		current: model.RatingMap{},
	}
}

// Aggregate queries the reviews of every product concurrently and publishes
// the resulting map once all queries have finished. If any query fails, the
// remaining ones are cancelled and awaited, the failure is logged and the
// previously published map is returned unchanged.
func (a *Aggregator) Aggregate(ctx context.Context, products []model.Product) model.RatingMap {
	results := make([]model.RatingAggregate, len(products))

	g, gctx := errgroup.WithContext(ctx)
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}

	for i := range products {
		i, productID := i, products[i].ID
		g.Go(func() error {
			reviews, err := a.reviews.ListByProduct(gctx, productID)
			if err != nil {
				return &ierr.AggregationError{ProductID: productID, Err: err}
			}
			results[i] = Summarize(reviews)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.mu.Lock()
		a.stale = true
		previous := a.current
		a.mu.Unlock()

		var aggErr *ierr.AggregationError
		if errors.As(err, &aggErr) {
			log.Error().Err(err).Str("productId", aggErr.ProductID).Msg("failed to aggregate ratings, keeping previous map")
		} else {
			log.Error().Err(err).Msg("failed to aggregate ratings, keeping previous map")
		}
		return previous
	}

	next := make(model.RatingMap, len(products))
	for i, p := range products {
		next[p.ID] = results[i]
	}

	a.mu.Lock()
	a.current = next
	a.version++
	a.stale = false
	a.mu.Unlock()

	return next
}

// Summarize computes the aggregate of one product's reviews. A review
// without a rating counts as 0.
func Summarize(reviews []model.Review) model.RatingAggregate {
	if len(reviews) == 0 {
		return model.RatingAggregate{}
	}

	var sum float64
	for _, r := range reviews {
		sum += r.Score()
	}
	return model.RatingAggregate{
		AverageRating: sum / float64(len(reviews)),
		ReviewCount:   len(reviews),
	}
}

// Current returns the last published map. Callers must not modify it.
func (a *Aggregator) Current() model.RatingMap {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Snapshot returns the published map together with its version.
func (a *Aggregator) Snapshot() (model.RatingMap, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current, a.version
}

func (a *Aggregator) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Stale reports whether the last aggregation failed, in which case Current
// may not reflect the current catalog.
func (a *Aggregator) Stale() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stale
}
