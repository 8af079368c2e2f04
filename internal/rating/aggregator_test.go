package rating

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database/memory"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/review"
	"github.com/NischalAcharya060/GearZone-sub001/internal/utils"
)

func seed(t *testing.T, repo review.IRepository, reviews ...model.Review) {
	t.Helper()
	if err := repo.CreateAll(context.Background(), reviews); err != nil {
		t.Fatal(err)
	}
}

func TestAggregate(t *testing.T) {
	store := memory.New()
	repo := review.New(store)
	seed(t, repo,
		model.Review{ProductID: "a", Rating: utils.Float64ToPointer(4)},
		model.Review{ProductID: "a", Rating: utils.Float64ToPointer(5)},
		model.Review{ProductID: "a", Rating: utils.Float64ToPointer(3)},
		model.Review{ProductID: "c", Rating: utils.Float64ToPointer(5)},
		model.Review{ProductID: "c"},
	)

	agg := New(repo, 2)
	got := agg.Aggregate(context.Background(), []model.Product{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	if got["a"] != (model.RatingAggregate{AverageRating: 4, ReviewCount: 3}) {
		t.Fatalf("a = %+v", got["a"])
	}
	if b, ok := got["b"]; !ok || b != (model.RatingAggregate{}) {
		t.Fatalf("b = %+v (present %v)", b, ok)
	}
	if got["c"] != (model.RatingAggregate{AverageRating: 2.5, ReviewCount: 2}) {
		t.Fatalf("missing rating must count as 0, c = %+v", got["c"])
	}
	if agg.Version() != 1 || agg.Stale() {
		t.Fatalf("version = %d stale = %v", agg.Version(), agg.Stale())
	}
	if agg.Current()["a"].ReviewCount != 3 {
		t.Fatalf("current not published")
	}
}

func TestAggregateFailureKeepsPreviousMap(t *testing.T) {
	store := memory.New()
	repo := review.New(store)
	seed(t, repo, model.Review{ProductID: "a", Rating: utils.Float64ToPointer(5)})

	agg := New(repo, 0)
	first := agg.Aggregate(context.Background(), []model.Product{{ID: "a"}})

	boom := errors.New("unavailable")
	var calls atomic.Int32
	store.SetQueryHook(func(collection string, where []filter.Where) error {
		calls.Add(1)
		for _, w := range where {
			if w.Value == "b" {
				return boom
			}
		}
		return nil
	})
	seed(t, repo, model.Review{ProductID: "a", Rating: utils.Float64ToPointer(1)})

	got := agg.Aggregate(context.Background(), []model.Product{{ID: "a"}, {ID: "b"}})
	if got["a"] != first["a"] || len(got) != 1 {
		t.Fatalf("expected previous map, got %+v", got)
	}
	if agg.Version() != 1 || !agg.Stale() {
		t.Fatalf("version = %d stale = %v", agg.Version(), agg.Stale())
	}
	if calls.Load() == 0 {
		t.Fatalf("hook never called")
	}

	store.SetQueryHook(nil)
	got = agg.Aggregate(context.Background(), []model.Product{{ID: "a"}, {ID: "b"}})
	if got["a"].ReviewCount != 2 || agg.Stale() {
		t.Fatalf("recovery failed, got %+v", got)
	}
}

type countingRepo struct {
	review.IRepository
	mu       sync.Mutex
	inflight int
	peak     int
}

func (c *countingRepo) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	c.mu.Lock()
	c.inflight++
	if c.inflight > c.peak {
		c.peak = c.inflight
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()
	return nil, nil
}

func TestAggregateRespectsLimit(t *testing.T) {
	repo := &countingRepo{}
	agg := New(repo, 1)

	products := make([]model.Product, 20)
	for i := range products {
		products[i].ID = string(rune('a' + i))
	}
	got := agg.Aggregate(context.Background(), products)
	if len(got) != 20 {
		t.Fatalf("expected an entry per product, got %d", len(got))
	}
	if repo.peak != 1 {
		t.Fatalf("peak concurrency = %d", repo.peak)
	}
}

func TestAggregateEmptyCatalog(t *testing.T) {
	agg := New(&countingRepo{}, 0)
	if got := agg.Aggregate(context.Background(), nil); len(got) != 0 {
		t.Fatalf("unexpected map %+v", got)
	}
	if agg.Version() != 1 {
		t.Fatalf("an empty catalog still publishes")
	}
}
