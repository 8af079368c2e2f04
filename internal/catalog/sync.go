// Package catalog keeps the in-memory product catalog, its categories and
// the promotional banners derived from it.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/category"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/product"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	opProducts   = "list products"
	opCategories = "list categories"
)

type Sync struct {
	products   product.IRepository
	categories category.IRepository

	mu              sync.RWMutex
	productList     []model.Product
	categoryList    []model.Category
	banners         []model.Banner
	version         uint64
	loadingRequests atomic.Int32
}

func New(products product.IRepository, categories category.IRepository) *Sync {
	return &Sync{
		products:   products,
		categories: categories,
	}
}

// Load replaces products, categories and banners with a fresh fetch. Both
// queries run concurrently and must both succeed; on failure the previous
// state is kept and a *errors.CatalogFetchError is returned.
func (s *Sync) Load(ctx context.Context, pageLimit int) error {
	s.loadingRequests.Add(1)
	defer s.loadingRequests.Add(-1)

	var (
		products   []model.Product
		categories []model.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx, pageLimit)
		if err != nil {
			return &ierr.CatalogFetchError{Op: opProducts, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx)
		if err != nil {
			return &ierr.CatalogFetchError{Op: opCategories, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load catalog")
		return err
	}

	banners := Banners(products)

	s.mu.Lock()
	s.productList = products
	s.categoryList = categories
	s.banners = banners
	s.version++
	version := s.version
	s.mu.Unlock()

	log.Debug().Int("products", len(products)).Int("categories", len(categories)).
		Uint64("version", version).Msg("catalog loaded")
	return nil
}

// Products returns the current catalog. The slice is replaced, never
// modified, on reload; callers must not modify it.
func (s *Sync) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productList
}

func (s *Sync) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryList
}

func (s *Sync) Banners() []model.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banners
}

// Snapshot returns the catalog together with the version it belongs to.
func (s *Sync) Snapshot() ([]model.Product, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productList, s.version
}

func (s *Sync) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Loading reports whether a Load is in flight.
func (s *Sync) Loading() bool {
	return s.loadingRequests.Load() > 0
}
