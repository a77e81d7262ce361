package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"assessment-service/internal/infra/sheets"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const payloadKey = "assessment:sheets:payload"

// PayloadFetcher retrieves the raw spreadsheet payload.
type PayloadFetcher interface {
	FetchAll(ctx context.Context) (sheets.Payload, error)
}

// PayloadCache keeps the raw spreadsheet payload in Redis with a short
// TTL so the catalog refresh and the stats view share one upstream fetch
// across instances. The stats computation itself is still re-run on
// every view; only the raw rows are cached.
type PayloadCache struct {
	client  *redis.Client
	fetcher PayloadFetcher
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewPayloadCache(client *redis.Client, fetcher PayloadFetcher, ttl time.Duration) *PayloadCache {
	return &PayloadCache{
		client:  client,
		fetcher: fetcher,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchAll returns the cached payload, refilling from the upstream
// endpoint on a miss. Cache errors degrade to a direct fetch.
func (c *PayloadCache) FetchAll(ctx context.Context) (sheets.Payload, error) {
	if payload, ok := c.cached(ctx); ok {
		return payload, nil
	}

	result, err, _ := c.sf.Do(payloadKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if payload, ok := c.cached(ctx); ok {
			return payload, nil
		}

		payload, err := c.fetcher.FetchAll(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(payload); err == nil {
			_ = c.client.Set(ctx, payloadKey, raw, c.ttlWithJitter()).Err()
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(sheets.Payload), nil
}

func (c *PayloadCache) cached(ctx context.Context) (sheets.Payload, bool) {
	raw, err := c.client.Get(ctx, payloadKey).Bytes()
	if err != nil {
		return nil, false
	}
	var payload sheets.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func (c *PayloadCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
