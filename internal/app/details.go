package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/domain"
)

// DetailService answers single-hotel lookups by trying providers in priority
// order; the first one that knows the id wins. Responses are cached under the
// provider-native id.
type DetailService struct {
	providers []domain.DetailProvider
	reviews   domain.ReviewProvider // nil when the consumer source is disabled
	cache     domain.Cache
	ttl       time.Duration
}

func NewDetailService(providers []domain.DetailProvider, reviews domain.ReviewProvider, cache domain.Cache, ttl time.Duration) *DetailService {
	return &DetailService{providers: providers, reviews: reviews, cache: cache, ttl: ttl}
}

func (s *DetailService) HotelDetails(ctx context.Context, id string) (map[string]any, error) {
	key := "detail:" + id
	var cached map[string]any
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	for _, p := range s.providers {
		details, err := p.HotelDetails(ctx, id)
		if err != nil {
			log.Debug().Str("provider", p.Name()).Str("id", id).Err(err).Msg("details lookup failed")
			continue
		}
		if details != nil {
			_ = s.cache.Set(ctx, key, details, int(s.ttl.Seconds()))
			return details, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *DetailService) HotelReviews(ctx context.Context, id string) ([]map[string]any, error) {
	if s.reviews == nil {
		return []map[string]any{}, nil
	}
	return s.reviews.HotelReviews(ctx, id)
}
