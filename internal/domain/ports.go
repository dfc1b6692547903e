package domain

import "context"

// Provider is one upstream hotel source. Implementations translate Query
// into provider-native calls and map responses into RawOffer. Offers with a
// non-positive price are dropped at mapping time. Failures come back as
// *ProviderError.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]RawOffer, error)
}

// DetailProvider is implemented by providers that can look up one hotel by
// its provider-native id. The payload is passed through untyped; field sets
// differ per provider.
type DetailProvider interface {
	Name() string
	HotelDetails(ctx context.Context, id string) (map[string]any, error)
}

// ReviewProvider is implemented by providers exposing guest reviews.
type ReviewProvider interface {
	HotelReviews(ctx context.Context, id string) ([]map[string]any, error)
}

// Cache is the shared TTL store. Get reports whether the key was present and
// unexpired; Set overwrites unconditionally (last writer wins).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
