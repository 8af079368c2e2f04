package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTaxonomyUnwraps(t *testing.T) {
	cause := context.DeadlineExceeded

	fetch := fmt.Errorf("refresh: %w", &CatalogFetchError{Op: "products", Err: cause})
	if !IsCatalogFetch(fetch) {
		t.Fatalf("expected catalog fetch error")
	}
	if !errors.Is(fetch, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable")
	}

	agg := &AggregationError{ProductID: "p1", Err: cause}
	if !errors.Is(agg, context.DeadlineExceeded) {
		t.Fatalf("aggregation error must unwrap")
	}

	sub := &SubscriptionError{Identity: "u1", Err: cause}
	if !errors.Is(sub, context.DeadlineExceeded) {
		t.Fatalf("subscription error must unwrap")
	}
}

func TestValidation(t *testing.T) {
	err := fmt.Errorf("criteria: %w", Invalid("priceRange", "min must not exceed max"))
	if !IsValidation(err) {
		t.Fatalf("expected validation error")
	}
	if IsValidation(NotFound) {
		t.Fatalf("NotFound is not a validation error")
	}
	if got := Invalid("currency", "unsupported").Error(); got != "invalid currency: unsupported" {
		t.Fatalf("unexpected message %q", got)
	}
}
