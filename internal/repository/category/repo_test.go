package category

import (
	"context"
	"testing"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database/memory"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Helmets", "Gloves", "Jackets"} {
		err := repo.Create(ctx, model.Category{ID: name, Name: name, CreatedAt: model.TimestampOf(base.AddDate(0, i, 0))})
		if err != nil {
			t.Fatal(err)
		}
	}

	categories, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 3 || categories[0].Name != "Jackets" || categories[2].Name != "Helmets" {
		t.Fatalf("unexpected order %+v", categories)
	}
	if categories[0].ID != "Jackets" {
		t.Fatalf("id must come from the document")
	}
}
