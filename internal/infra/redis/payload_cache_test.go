package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"assessment-service/internal/infra/sheets"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPayloadCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	fetcher := &countingFetcher{payload: samplePayload()}
	cache := NewPayloadCache(client, fetcher, time.Minute)

	payload, err := cache.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected upstream fetched once, got %d", fetcher.calls)
	}
	rows := payload[sheets.SheetCriteria]
	if len(rows) != 1 || rows[0].Get("Domain_EN") != "Governance" {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	// Second call should hit cache, upstream not incremented.
	cached, err := cache.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected cache hit, upstream calls=%d", fetcher.calls)
	}
	if got := cached[sheets.SheetCriteria][0].Columns(); len(got) != 2 || got[0] != "Domain_EN" {
		t.Fatalf("cached rows must preserve column order, got %v", got)
	}
}

func TestPayloadCacheRefetchesAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	fetcher := &countingFetcher{payload: samplePayload()}
	cache := NewPayloadCache(client, fetcher, time.Minute)

	if _, err := cache.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected refetch after expiry, upstream calls=%d", fetcher.calls)
	}
}

func TestPayloadCacheSurfacesUpstreamError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	fetcher := &countingFetcher{err: errors.New("upstream down")}
	cache := NewPayloadCache(client, fetcher, time.Minute)

	if _, err := cache.FetchAll(context.Background()); err == nil {
		t.Fatal("expected upstream error to surface")
	}
}

type countingFetcher struct {
	payload sheets.Payload
	err     error
	calls   int
}

func (f *countingFetcher) FetchAll(context.Context) (sheets.Payload, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func samplePayload() sheets.Payload {
	return sheets.Payload{
		sheets.SheetCriteria: []sheets.Row{
			sheets.NewRow(
				[2]string{"Domain_EN", "Governance"},
				[2]string{"Criterion_AR", "معيار"},
			),
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
