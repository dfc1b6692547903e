package app_test

import (
	"testing"

	"stayfinder/internal/app"
)

func TestFallbackCatalog_ThemedAndPriced(t *testing.T) {
	for _, dest := range []string{"cairo", "hurghada", "sharm", "alex", "luxor", "aswan"} {
		hotels := app.FallbackCatalog(dest)
		if len(hotels) == 0 {
			t.Fatalf("%s: empty catalog", dest)
		}
		for _, h := range hotels {
			if h.City != dest || h.Name == "" {
				t.Fatalf("%s: bad hotel %+v", dest, h)
			}
			if h.BestPrice <= 0 || h.PriceCount != len(h.Prices) || len(h.Prices) == 0 {
				t.Fatalf("%s: bad pricing %+v", dest, h)
			}
			for _, q := range h.Prices {
				if q.Price < h.BestPrice {
					t.Fatalf("%s: bestPrice %v is not minimal (%+v)", dest, h.BestPrice, q)
				}
			}
		}
	}
}

func TestFallbackCatalog_UnknownDestinationDefaultsToCairo(t *testing.T) {
	hotels := app.FallbackCatalog("nowhere")
	if len(hotels) == 0 || hotels[0].City != "cairo" {
		t.Fatalf("unexpected catalog: %+v", hotels)
	}
}

func TestFallbackCatalog_MarsaGetsGenericNames(t *testing.T) {
	hotels := app.FallbackCatalog("marsa")
	if len(hotels) == 0 {
		t.Fatal("empty catalog")
	}
	for _, h := range hotels {
		if h.Name == "" || h.CityName != "Marsa Alam" {
			t.Fatalf("bad hotel %+v", h)
		}
	}
}
