package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/storeport/backend/internal/domain"
)

// storedItem is a single stored record with expiration.
type storedItem struct {
	record     domain.ProductRecord
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory product store with TTL support
// and a bounded most-recently-exported history.
type MemoryStore struct {
	data    map[string]storedItem
	history []string
	ttl     time.Duration
	mutex   sync.RWMutex
}

// NewMemoryStore creates an in-memory store. A non-positive ttl disables
// expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]storedItem),
		ttl:  ttl,
	}

	if ttl > 0 {
		// Cleanup goroutine removes expired entries every 10 minutes
		go store.cleanupExpired()
	}

	return store
}

// Save stores a snapshot of the record and moves its URL to the front of
// the history.
func (s *MemoryStore) Save(ctx context.Context, rec *domain.ProductRecord) error {
	// Round-trip through JSON so the stored slices cannot be aliased by
	// the caller afterwards.
	jsonData, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	var snapshot domain.ProductRecord
	if err := json.Unmarshal(jsonData, &snapshot); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	item := storedItem{record: snapshot}
	if s.ttl > 0 {
		item.expiration = time.Now().Add(s.ttl)
	}
	s.data[rec.URL] = item
	s.pushHistory(rec.URL)

	return nil
}

// Get retrieves a stored record, or domain.ErrStoreMiss when the URL is
// unknown or its entry expired.
func (s *MemoryStore) Get(ctx context.Context, pageURL string) (*domain.ProductRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[pageURL]
	if !exists {
		return nil, domain.ErrStoreMiss
	}

	// Check if expired
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		return nil, domain.ErrStoreMiss
	}

	rec := item.record
	return &rec, nil
}

// Reset drops every stored record and the history.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data = make(map[string]storedItem)
	s.history = nil
	return nil
}

// History returns the recently saved URLs, most recent first.
func (s *MemoryStore) History(ctx context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]string(nil), s.history...), nil
}

// pushHistory front-inserts the URL, dropping an earlier occurrence and
// capping the list at domain.HistoryLimit. Caller must hold the lock.
func (s *MemoryStore) pushHistory(pageURL string) {
	history := make([]string, 0, len(s.history)+1)
	history = append(history, pageURL)
	for _, u := range s.history {
		if u != pageURL {
			history = append(history, u)
		}
	}
	if len(history) > domain.HistoryLimit {
		history = history[:domain.HistoryLimit]
	}
	s.history = history
}

// Size returns the current number of stored records (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// cleanupExpired removes expired entries from the store periodically
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for key, item := range s.data {
			if !item.expiration.IsZero() && now.After(item.expiration) {
				delete(s.data, key)
			}
		}
		s.mutex.Unlock()
	}
}
