package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPageNotFound is returned when the site answers 404 for a product URL
	ErrPageNotFound = errors.New("product page not found")

	// ErrPageFetch is returned when the product page could not be downloaded
	ErrPageFetch = errors.New("product page fetch failed")

	// ErrInvalidSchema marks an embedded state fragment that was present but
	// did not parse as any known shape; it is recovered locally, never fatal
	ErrInvalidSchema = errors.New("embedded state fragment has unknown schema")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStoreMiss is returned when a URL has no cached record in the store
	ErrStoreMiss = errors.New("store miss")
)

// Canonical field names used in MissingFieldError. Only these four are fatal
// to an extraction.
const (
	FieldTitle      = "title"
	FieldPrice      = "price"
	FieldImages     = "images"
	FieldCategories = "categories"
)

// MissingFieldError reports that a required field could not be resolved by
// any of its fallback strategies. The whole extraction fails with it; partial
// records are never returned.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// IsMissingField reports whether err is a MissingFieldError for the given
// field. An empty field matches any missing field.
func IsMissingField(err error, field string) bool {
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		return false
	}
	return field == "" || mfe.Field == field
}
