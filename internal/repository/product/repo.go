package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/helper"
)

type ProductRepository struct {
	db database.Client
}

var _ IRepository = ProductRepository{}

func New(db database.Client) ProductRepository {
	return ProductRepository{
		db: db,
	}
}

// List returns the newest products first, at most limit of them (0 means no cap).
func (r ProductRepository) List(ctx context.Context, limit int) ([]model.Product, error) {
	docs, err := r.db.Query(ctx, productNode, nil,
		[]filter.OrderBy{{Path: CreatedAtFieldPath, Direction: filter.Desc}}, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return helper.Decode(productNode, docs, withID), nil
}

func (r ProductRepository) GetById(ctx context.Context, id string) (*model.Product, error) {
	doc, err := r.db.Get(ctx, productNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("get product: %w, id: %s", err, id)
	}

	product := &model.Product{}
	if err := doc.DataTo(product); err != nil {
		return nil, fmt.Errorf("get product: %w, id: %s", err, id)
	}
	withID(product, doc.ID)
	return product, nil
}

func (r ProductRepository) Create(ctx context.Context, data model.Product) error {
	if data.ID == "" {
		return fmt.Errorf("create product: %w", ierr.Invalid("id", "must not be empty"))
	}

	p, err := r.GetById(ctx, data.ID)
	if p != nil {
		return fmt.Errorf("create product: %w, id: %s", ierr.AlreadyExists, data.ID)
	}
	if err != nil && !errors.Is(err, ierr.NotFound) {
		return fmt.Errorf("create product: %w, id: %s", err, data.ID)
	}

	if data.CreatedAt == 0 {
		data.CreatedAt = model.TimestampOf(time.Now().UTC())
	}

	if _, err := r.db.Set(ctx, productNode, data.ID, fields(data)); err != nil {
		return fmt.Errorf("create product: %w, id: %s", err, data.ID)
	}
	return nil
}

// fields keeps createdAt a native time so the store orders it as a timestamp.
func fields(p model.Product) map[string]interface{} {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	f := map[string]interface{}{
		IdFieldPath:          p.ID,
		NameFieldPath:        p.Name,
		BrandFieldPath:       p.Brand,
		CategoryFieldPath:    p.Category,
		PriceFieldPath:       p.Price,
		StockFieldPath:       p.Stock,
		ImagesFieldPath:      images,
		FeaturedFieldPath:    p.Featured,
		DescriptionFieldPath: p.Description,
		CreatedAtFieldPath:   p.CreatedAt.Time(),
	}
	if p.OriginalPrice != nil {
		f[OriginalPriceFieldPath] = *p.OriginalPrice
	}
	return f
}

func withID(p *model.Product, id string) {
	if p.ID == "" {
		p.ID = id
	}
}
