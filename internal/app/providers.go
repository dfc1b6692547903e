package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"stayfinder/internal/domain"
)

// CachedProvider wraps a provider with the shared TTL cache. The cache key
// is derived from the provider name plus every search parameter, so distinct
// windows never alias. Concurrent misses for the same key are collapsed into
// one upstream call; failures are never cached.
type CachedProvider struct {
	inner domain.Provider
	cache domain.Cache
	ttl   time.Duration
	sf    singleflight.Group
}

func NewCachedProvider(p domain.Provider, c domain.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: p, cache: c, ttl: ttl}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) Search(ctx context.Context, q domain.Query) ([]domain.RawOffer, error) {
	key := fmt.Sprintf("%s:%s:%s:%s:%d",
		p.inner.Name(), q.Destination,
		q.CheckIn.Format("2006-01-02"), q.CheckOut.Format("2006-01-02"), q.Adults)

	var cached []domain.RawOffer
	if ok, _ := p.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	v, err, _ := p.sf.Do(key, func() (any, error) {
		offers, err := p.inner.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		_ = p.cache.Set(ctx, key, offers, int(p.ttl.Seconds()))
		return offers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.RawOffer), nil
}
