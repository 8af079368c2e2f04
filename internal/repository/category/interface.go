package category

import (
	"context"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

type IRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, data model.Category) error
}
