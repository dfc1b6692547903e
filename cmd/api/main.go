package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"stayfinder/internal/adapters/amadeus"
	server "stayfinder/internal/adapters/http_server"
	"stayfinder/internal/adapters/memcache"
	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/adapters/rapidapi"
	"stayfinder/internal/adapters/rediscache"
	"stayfinder/internal/adapters/serpapi"
	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// cache: redis when configured, in-memory otherwise
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = rediscache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
	} else {
		cache = memcache.New()
		log.Info().Msg("using in-memory cache")
	}

	// providers: a missing credential disables the source, it does not fail
	var (
		providers []domain.Provider
		detailers []domain.DetailProvider
		reviews   domain.ReviewProvider
	)
	if gds, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusID, cfg.AmadeusSecret, cfg.ProviderTimeout, 5); err == nil {
		providers = append(providers, app.NewCachedProvider(gds, cache, cfg.CacheTTL))
		detailers = append(detailers, gds)
	}
	if bk, err := rapidapi.New(cfg.RapidHost, cfg.RapidKey, cfg.ProviderTimeout); err == nil {
		providers = append(providers, app.NewCachedProvider(bk, cache, cfg.CacheTTL))
		detailers = append(detailers, bk)
		reviews = bk
	}
	if gh, err := serpapi.New(cfg.SerpBase, cfg.SerpKey, cfg.ProviderTimeout); err == nil {
		providers = append(providers, app.NewCachedProvider(gh, cache, cfg.CacheTTL))
	}
	log.Info().Int("available", len(providers)).Msg("providers configured")

	merger := app.NewMerger(app.NewNameNormalizer(cfg.NameStopwords), domain.SourceOrder)
	search := app.NewSearchService(providers, domain.SourceOrder, merger)
	details := app.NewDetailService(detailers, reviews, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search:  search,
		Details: details,
		Limiter: server.NewIPLimiter(cfg.SearchPerMin),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
