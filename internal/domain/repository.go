package domain

import (
	"context"
)

// HistoryLimit bounds the URL history kept by a ProductStore.
const HistoryLimit = 3

// ProductStore caches extracted records keyed by product URL and remembers
// the most recently scraped URLs. Implementations must serialize updates per
// key; the pipeline itself is free of shared mutable state.
type ProductStore interface {
	// Save stores (or overwrites) the record under its URL.
	Save(ctx context.Context, record *ProductRecord) error
	// Get returns the cached record for the URL, or ErrStoreMiss.
	Get(ctx context.Context, url string) (*ProductRecord, error)
	// Reset drops every cached record and the URL history.
	Reset(ctx context.Context) error
	// History returns up to HistoryLimit URLs, most recent first,
	// deduplicated.
	History(ctx context.Context) ([]string, error)
}
