package catalog

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/sheets"
	"golang.org/x/sync/singleflight"
)

// PayloadFetcher retrieves the raw spreadsheet payload.
type PayloadFetcher interface {
	FetchAll(ctx context.Context) (sheets.Payload, error)
}

// Repository serves the normalized catalog, caching the built model with
// a TTL to avoid hammering the remote endpoint. A fetch failure never
// surfaces to callers: the skeleton (or the last good build) is returned
// instead, so consumers are never blocked from starting an assessment.
type Repository struct {
	fetcher PayloadFetcher
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Domain
	expiresAt time.Time
}

func NewRepository(fetcher PayloadFetcher, ttl time.Duration) *Repository {
	return &Repository{
		fetcher: fetcher,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Catalog returns the current domain catalog, refreshing it from the
// remote payload when the cached build has expired.
func (r *Repository) Catalog(ctx context.Context) []domain.Domain {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		cached := r.cached
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	result, _, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			cached := r.cached
			r.mu.RUnlock()
			return cached, nil
		}
		r.mu.RUnlock()

		payload, err := r.fetcher.FetchAll(ctx)
		if err != nil {
			log.Printf("catalog refresh failed, keeping fallback model: %v", err)
			r.mu.RLock()
			stale := r.cached
			r.mu.RUnlock()
			if stale != nil {
				return stale, nil
			}
			return Skeleton(), nil
		}

		built := Build(payload)
		r.mu.Lock()
		r.cached = built
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return built, nil
	})
	return result.([]domain.Domain)
}

// Invalidate expires the cached build so the next call refetches. The
// stale build is kept as the fallback should that refetch fail.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

func (r *Repository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
