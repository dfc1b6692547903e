package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/domain"
)

// SearchService is the aggregation engine: it validates a request, fans out
// to every available provider concurrently, merges what came back, and falls
// back to the synthetic catalog when nothing did. Its only error is
// *domain.ValidationError; everything past validation answers with a result.
type SearchService struct {
	providers []domain.Provider // available providers only, priority order
	known     []string          // all source keys reported in metadata
	merger    *Merger
	now       func() time.Time
}

func NewSearchService(providers []domain.Provider, known []string, merger *Merger) *SearchService {
	return &SearchService{providers: providers, known: known, merger: merger, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin "today".
func (s *SearchService) WithClock(now func() time.Time) *SearchService {
	s.now = now
	return s
}

func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (res domain.SearchResult, err error) {
	// one snapshot per request; both date defaults derive from it
	now := s.now()

	if req.Adults == 0 {
		req.Adults = 1
	}
	if req.Sort == "" {
		req.Sort = domain.SortBest
	}
	if verr := req.Validate(now); verr != nil {
		return res, verr
	}
	q := resolveQuery(req, now)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("city", q.Destination).
				Msg("search recovered, serving fallback")
			res = s.fallbackResult(req, q, nil)
			err = nil
		}
	}()

	bySource, provErrs := s.fanOut(ctx, q)

	if len(bySource) == 0 {
		res = s.fallbackResult(req, q, provErrs)
		observability.ObserveSearch(true)
		return res, nil
	}

	hotels := Rank(s.merger.Merge(bySource, q.Destination), req.Filters, req.Sort)
	observability.ObserveSearch(false)
	return domain.SearchResult{
		Hotels: hotels,
		Meta:   s.meta(q, hotels, bySource, false, provErrs),
	}, nil
}

// fanOut queries all available providers concurrently. Each call is
// isolated: a failure (or panic) in one neither cancels nor delays the
// others, and each provider bounds its own upstream timeout.
func (s *SearchService) fanOut(ctx context.Context, q domain.Query) (map[string][]domain.RawOffer, []domain.ProviderError) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = map[string][]domain.RawOffer{}
		errs    []domain.ProviderError
	)

	for _, p := range s.providers {
		wg.Add(1)
		go func(p domain.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					observability.ObserveProviderFailure(p.Name())
					mu.Lock()
					errs = append(errs, domain.ProviderError{Source: p.Name(), Message: fmt.Sprintf("panic: %v", r)})
					mu.Unlock()
				}
			}()

			start := time.Now()
			offers, err := p.Search(ctx, q)
			if err != nil {
				observability.ObserveProviderFailure(p.Name())
				log.Warn().Str("provider", p.Name()).Err(err).
					Dur("duration", time.Since(start)).Msg("provider search failed")
				var pe *domain.ProviderError
				if !errors.As(err, &pe) {
					pe = &domain.ProviderError{Source: p.Name(), Message: err.Error()}
				}
				mu.Lock()
				errs = append(errs, *pe)
				mu.Unlock()
				return
			}
			log.Info().Str("provider", p.Name()).Int("offers", len(offers)).
				Dur("duration", time.Since(start)).Msg("provider search ok")
			mu.Lock()
			results[p.Name()] = offers
			mu.Unlock()
		}(p)
	}
	wg.Wait()
	return results, errs
}

func (s *SearchService) fallbackResult(req domain.SearchRequest, q domain.Query, provErrs []domain.ProviderError) domain.SearchResult {
	hotels := Rank(FallbackCatalog(q.Destination), req.Filters, req.Sort)
	return domain.SearchResult{
		Hotels: hotels,
		Meta:   s.meta(q, hotels, nil, true, provErrs),
	}
}

func (s *SearchService) meta(q domain.Query, hotels []domain.CanonicalHotel, bySource map[string][]domain.RawOffer, fallback bool, provErrs []domain.ProviderError) domain.SearchMeta {
	sources := make(map[string]bool, len(s.known))
	for _, src := range s.known {
		_, ok := bySource[src]
		sources[src] = ok
	}
	return domain.SearchMeta{
		SearchID:     uuid.NewString(),
		Total:        len(hotels),
		City:         q.Destination,
		CheckIn:      q.CheckIn.Format("2006-01-02"),
		CheckOut:     q.CheckOut.Format("2006-01-02"),
		Sources:      sources,
		UsedFallback: fallback,
		Errors:       provErrs,
	}
}

// resolveQuery fills date defaults: check-in tomorrow, check-out five nights
// after the resolved check-in. Both derive from the same clock snapshot.
func resolveQuery(req domain.SearchRequest, now time.Time) domain.Query {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	in := today.AddDate(0, 0, 1)
	if req.CheckIn != "" {
		in, _ = time.Parse("2006-01-02", req.CheckIn) // validated already
	}
	out := in.AddDate(0, 0, 5)
	if req.CheckOut != "" {
		out, _ = time.Parse("2006-01-02", req.CheckOut)
	}
	return domain.Query{Destination: req.Destination, CheckIn: in, CheckOut: out, Adults: req.Adults}
}
