package errors

import (
	"errors"
	"fmt"
)

var (
	NotFound      = errors.New("not found")
	AlreadyExists = errors.New("already exists")
)

// CatalogFetchError is the only failure surfaced to the user: the bulk
// products/categories fetch did not complete.
type CatalogFetchError struct {
	Op  string
	Err error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("catalog fetch (%s): %v", e.Op, e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

type AggregationError struct {
	ProductID string
	Err       error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate ratings, productId %s: %v", e.ProductID, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

type SubscriptionError struct {
	Identity string
	Err      error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("notification subscription, userId %s: %v", e.Identity, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsCatalogFetch(err error) bool {
	var c *CatalogFetchError
	return errors.As(err, &c)
}
