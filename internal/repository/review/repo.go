package review

import (
	"context"
	"fmt"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/helper"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/ops"
)

type ReviewRepository struct {
	db database.Client
}

var _ IRepository = ReviewRepository{}

func New(db database.Client) ReviewRepository {
	return ReviewRepository{
		db: db,
	}
}

func (r ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	where := []filter.Where{{Path: ProductIdFieldPath, Op: ops.Equal, Value: productID}}
	docs, err := r.db.Query(ctx, reviewNode, where, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w, productId: %s", err, productID)
	}

	return helper.Decode(reviewNode, docs, func(rw *model.Review, id string) {
		rw.ID = id
	}), nil
}

func (r ReviewRepository) CreateAll(ctx context.Context, data []model.Review) error {
	batch := make([]database.DataBatch, 0, len(data))
	for _, rw := range data {
		if rw.CreatedAt == 0 {
			rw.CreatedAt = model.TimestampOf(time.Now().UTC())
		}

		fields := map[string]interface{}{
			ProductIdFieldPath: rw.ProductID,
			UserIdFieldPath:    rw.UserID,
			CommentFieldPath:   rw.Comment,
			CreatedAtFieldPath: rw.CreatedAt.Time(),
		}
		// a review without a rating is stored without the field
		if rw.Rating != nil {
			fields[RatingFieldPath] = *rw.Rating
		}

		batch = append(batch, database.DataBatch{ID: rw.ID, Data: fields})
	}

	if err := r.db.SetAll(ctx, reviewNode, batch); err != nil {
		return fmt.Errorf("add product reviews: %w", err)
	}
	return nil
}
