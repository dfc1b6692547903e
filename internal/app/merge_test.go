package app_test

import (
	"reflect"
	"testing"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
)

func newMerger() *app.Merger {
	return app.NewMerger(app.NewNameNormalizer(nil), domain.SourceOrder)
}

func offer(source, name string, stars int, rating, price float64) domain.RawOffer {
	return domain.RawOffer{
		Source: source,
		Name:   name,
		Stars:  stars,
		Rating: rating,
		Quotes: []domain.PriceQuote{{Source: source, Price: price, Currency: "EGP"}},
	}
}

func TestMerge_SameNormalizedKeyMergesAcrossSources(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceAmadeus: {offer("Amadeus", "The Nile Palace Hotel", 5, 8.0, 3000)},
		domain.SourceBooking: {offer("Booking.com", "Nile Palace Resort", 4, 9.1, 2800)},
	}

	hotels := newMerger().Merge(bySource, "cairo")
	if len(hotels) != 1 {
		t.Fatalf("expected 1 merged hotel, got %d", len(hotels))
	}
	h := hotels[0]
	if h.PriceCount != 2 {
		t.Fatalf("expected priceCount 2, got %d", h.PriceCount)
	}
	// identity fields come from the first source in priority order
	if h.Name != "The Nile Palace Hotel" || h.Stars != 5 {
		t.Fatalf("expected first-writer identity, got name=%q stars=%d", h.Name, h.Stars)
	}
	// rating is the max across sources
	if h.Rating != 9.1 {
		t.Fatalf("expected max rating 9.1, got %v", h.Rating)
	}
	if h.BestPrice != 2800 || h.BestSource == nil || h.BestSource.Source != "Booking.com" {
		t.Fatalf("unexpected best price: %v from %+v", h.BestPrice, h.BestSource)
	}
}

func TestMerge_BestPriceIsMinPositiveQuote(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceGoogle: {{
			Source: domain.SourceGoogle,
			Name:   "Coral Bay",
			Quotes: []domain.PriceQuote{
				{Source: "Expedia", Price: 1900, Currency: "EGP"},
				{Source: "Agoda", Price: 1500, Currency: "EGP"},
				{Source: "Hotels.com", Price: -5, Currency: "EGP"}, // dropped
			},
		}},
	}

	hotels := newMerger().Merge(bySource, "hurghada")
	if len(hotels) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(hotels))
	}
	h := hotels[0]
	if h.BestPrice != 1500 || h.PriceCount != 2 {
		t.Fatalf("bestPrice=%v priceCount=%d", h.BestPrice, h.PriceCount)
	}
	for _, q := range h.Prices {
		if q.Price <= 0 {
			t.Fatalf("non-positive quote survived: %+v", q)
		}
	}
}

func TestMerge_DropsHotelsWithoutPositiveQuote(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceGoogle: {
			{Source: domain.SourceGoogle, Name: "Quoteless Lodge", Features: []string{"WiFi"}},
			offer("Google Hotels", "Priced Inn", 3, 7.0, 900),
		},
	}

	hotels := newMerger().Merge(bySource, "luxor")
	if len(hotels) != 1 || hotels[0].Name != "Priced Inn" {
		t.Fatalf("expected only the priced hotel, got %+v", hotels)
	}
}

func TestMerge_OutputSortedByBestPriceAscending(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceAmadeus: {
			offer("Amadeus", "Expensive Place", 5, 9.0, 5000),
			offer("Amadeus", "Cheap Place", 3, 7.0, 800),
			offer("Amadeus", "Middle Place", 4, 8.0, 2000),
		},
	}

	hotels := newMerger().Merge(bySource, "cairo")
	if len(hotels) != 3 {
		t.Fatalf("expected 3 hotels, got %d", len(hotels))
	}
	for i := 1; i < len(hotels); i++ {
		if hotels[i-1].BestPrice > hotels[i].BestPrice {
			t.Fatalf("not sorted ascending: %v", hotels)
		}
	}
}

func TestMerge_DeterministicForFixedPriorityOrder(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceAmadeus: {
			offer("Amadeus", "Alpha Hotel", 4, 8.0, 1000),
			offer("Amadeus", "Beta Resort", 5, 8.5, 2000),
		},
		domain.SourceBooking: {
			offer("Booking.com", "Beta", 3, 9.0, 1800),
			offer("Booking.com", "Gamma Hotel", 4, 7.5, 1500),
		},
		domain.SourceGoogle: {
			offer("Google Hotels", "Alpha", 4, 9.4, 950),
		},
	}

	m := newMerger()
	first := m.Merge(bySource, "cairo")
	second := m.Merge(bySource, "cairo")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("merge not deterministic:\n%+v\nvs\n%+v", first, second)
	}
}

func TestMerge_FeatureUnionDeduplicates(t *testing.T) {
	bySource := map[string][]domain.RawOffer{
		domain.SourceBooking: {{
			Source: domain.SourceBooking, Name: "Sea View",
			Features: []string{"Pool", "WiFi"},
			Quotes:   []domain.PriceQuote{{Source: "Booking.com", Price: 1200, Currency: "EGP"}},
		}},
		domain.SourceGoogle: {{
			Source: domain.SourceGoogle, Name: "Sea View Hotel",
			Features: []string{"WiFi", "Spa"},
			Quotes:   []domain.PriceQuote{{Source: "Expedia", Price: 1100, Currency: "EGP"}},
		}},
	}

	hotels := newMerger().Merge(bySource, "sharm")
	if len(hotels) != 1 {
		t.Fatalf("expected merge into 1 hotel, got %d", len(hotels))
	}
	want := []string{"Pool", "WiFi", "Spa"}
	if !reflect.DeepEqual(hotels[0].Features, want) {
		t.Fatalf("features = %v, want %v", hotels[0].Features, want)
	}
}

func TestNameNormalizer_CustomStopwords(t *testing.T) {
	n := app.NewNameNormalizer([]string{"lodge"})
	if got := n.Key("The Desert Lodge"); got != "the desert" {
		t.Fatalf("custom stopwords: got %q", got)
	}

	def := app.NewNameNormalizer(nil)
	if def.Key("The Grand Hotel & Resort") != def.Key("Grand") {
		t.Fatalf("default stopwords should equate %q and %q",
			def.Key("The Grand Hotel & Resort"), def.Key("Grand"))
	}
}
