package journal

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cache/persistence"

	"github.com/clearlane/paysettle/models"
)

// DefaultTTL keeps settled outcomes around long enough for client retries
// without growing the cache forever.
const DefaultTTL = 10 * time.Minute

// MemoryStore keeps settlements in an in-process TTL cache. Suitable for a
// single engine instance; use the Postgres store when several instances share
// a journal.
type MemoryStore struct {
	cache *persistence.InMemoryStore
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: persistence.NewInMemoryStore(ttl), ttl: ttl}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*models.SettlementOutcome, error) {
	var outcome models.SettlementOutcome
	if err := m.cache.Get(key, &outcome); err != nil {
		if errors.Is(err, persistence.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &outcome, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, outcome models.SettlementOutcome) error {
	return m.cache.Set(key, outcome, m.ttl)
}
