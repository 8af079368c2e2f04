package review

import (
	"context"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

type IRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]model.Review, error)
	CreateAll(ctx context.Context, data []model.Review) error
}
