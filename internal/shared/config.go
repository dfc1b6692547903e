package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisPass string
	RedisDB   int

	CacheTTL        time.Duration
	ProviderTimeout time.Duration
	SearchPerMin    int

	AmadeusBase   string
	AmadeusID     string
	AmadeusSecret string
	RapidKey      string
	RapidHost     string
	SerpKey       string
	SerpBase      string

	NameStopwords []string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 3600)) * time.Second,
		ProviderTimeout: time.Duration(atoi("PROVIDER_TIMEOUT_SECONDS", 20)) * time.Second,
		SearchPerMin:    atoi("SEARCH_RATE_PER_MIN", 30),
		AmadeusBase:     env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusID:       env("AMADEUS_CLIENT_ID", ""),
		AmadeusSecret:   env("AMADEUS_CLIENT_SECRET", ""),
		RapidKey:        env("RAPIDAPI_KEY", ""),
		RapidHost:       env("RAPIDAPI_HOST", "booking-com.p.rapidapi.com"),
		SerpKey:         env("SERPAPI_KEY", ""),
		SerpBase:        env("SERPAPI_BASE_URL", "https://serpapi.com"),
	}
	if sw := os.Getenv("NAME_STOPWORDS"); sw != "" {
		for _, t := range strings.Split(sw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.NameStopwords = append(c.NameStopwords, t)
			}
		}
	}
	if c.AmadeusID == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS credentials are empty; GDS source disabled")
	}
	if c.RapidKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is empty; Booking.com source disabled")
	}
	if c.SerpKey == "" {
		log.Warn().Msg("SERPAPI_KEY is empty; Google Hotels source disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
