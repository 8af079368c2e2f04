package category

import (
	"context"
	"fmt"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/helper"
)

type CategoryRepository struct {
	db database.Client
}

var _ IRepository = CategoryRepository{}

func New(db database.Client) CategoryRepository {
	return CategoryRepository{
		db: db,
	}
}

// List returns every category, newest first.
func (r CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	docs, err := r.db.Query(ctx, categoryNode, nil,
		[]filter.OrderBy{{Path: CreatedAtFieldPath, Direction: filter.Desc}}, 0)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return helper.Decode(categoryNode, docs, func(c *model.Category, id string) {
		c.ID = id
	}), nil
}

func (r CategoryRepository) Create(ctx context.Context, data model.Category) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = model.TimestampOf(time.Now().UTC())
	}

	fields := map[string]interface{}{
		NameFieldPath:      data.Name,
		CreatedAtFieldPath: data.CreatedAt.Time(),
	}
	if data.Icon != "" {
		fields[IconFieldPath] = data.Icon
	}

	if _, err := r.db.Set(ctx, categoryNode, data.ID, fields); err != nil {
		return fmt.Errorf("create category: %w, name: %s", err, data.Name)
	}
	return nil
}
