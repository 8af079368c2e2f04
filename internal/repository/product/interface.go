package product

import (
	"context"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

type IRepository interface {
	List(ctx context.Context, limit int) ([]model.Product, error)
	GetById(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, data model.Product) error
}
