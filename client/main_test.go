package main

import (
	"context"
	"testing"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database/memory"
	productRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/product"
	reviewRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/review"
)

func TestSeedFixture(t *testing.T) {
	f, err := readFixture("./fixtures/catalog.json")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	db := memory.New()

	s, err := seed(ctx, db, f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.categories != 3 || s.products != 3 || s.reviews != 3 || s.notifications != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}

	products, err := productRepository.New(db).List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 || products[0].ID != "alpinestars-smx1" {
		t.Fatalf("unexpected products %+v", products)
	}

	reviews, err := reviewRepository.New(db).ListByProduct(ctx, "shoei-rf1400")
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}

	// a second run only skips the existing products
	s, err = seed(ctx, db, f, collections([]string{"Products"}))
	if err != nil {
		t.Fatal(err)
	}
	if s.products != 0 || s.skipped != 3 || s.reviews != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSeedNothing(t *testing.T) {
	if _, err := seed(context.Background(), memory.New(), fixture{}, nil); err == nil {
		t.Fatalf("expected an error for an empty fixture")
	}
}
