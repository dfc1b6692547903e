package app

import (
	"fmt"
	"math"
	"math/rand"

	"stayfinder/internal/domain"
)

// Synthetic catalog used when no provider yields data. Destination-themed so
// the UI stays plausible; prices are per-destination base rates spread across
// four sales channels.
type sample struct {
	names  map[string]string
	stars  int
	rating float64
	base   map[string]float64
}

var samples = []sample{
	{
		names: map[string]string{
			"cairo": "Cairo Marriott", "hurghada": "Steigenberger Hurghada", "sharm": "Hilton Sharm El Sheikh",
			"alex": "Four Seasons Alexandria", "luxor": "Sofitel Luxor", "aswan": "Cataract Aswan",
		},
		stars: 5, rating: 9.2,
		base: map[string]float64{"cairo": 4200, "hurghada": 2500, "sharm": 2900, "alex": 5200, "luxor": 3600, "aswan": 4700},
	},
	{
		names: map[string]string{
			"cairo": "Kempinski Nile", "hurghada": "Sunny Days Hurghada", "sharm": "Rixos Sharm",
			"alex": "Hilton Alexandria", "luxor": "Hilton Luxor", "aswan": "Movenpick Aswan",
		},
		stars: 5, rating: 8.8,
		base: map[string]float64{"cairo": 5900, "hurghada": 1800, "sharm": 3500, "alex": 3800, "luxor": 2800, "aswan": 3200},
	},
	{
		names: map[string]string{
			"cairo": "Semiramis InterContinental", "hurghada": "Jaz Aquamarine", "sharm": "Naama Blue",
			"alex": "Sheraton Montazah", "luxor": "Jolie Ville Luxor", "aswan": "Basma Aswan",
		},
		stars: 4, rating: 8.4,
		base: map[string]float64{"cairo": 3200, "hurghada": 1500, "sharm": 1900, "alex": 2800, "luxor": 2200, "aswan": 1800},
	},
	{
		names: map[string]string{
			"cairo": "Fairmont Nile City", "hurghada": "Desert Rose", "sharm": "Baron Resort",
			"alex": "Tolip Alexandria", "luxor": "Pavillon Winter Luxor", "aswan": "Isis Aswan",
		},
		stars: 5, rating: 9.0,
		base: map[string]float64{"cairo": 6500, "hurghada": 2200, "sharm": 2600, "alex": 2400, "luxor": 4000, "aswan": 2500},
	},
	{
		names: map[string]string{
			"cairo": "Ramses Hilton", "hurghada": "Bella Vista", "sharm": "Coral Sea",
			"alex": "Romance Alexandria", "luxor": "Steigenberger Luxor", "aswan": "Hilton Aswan",
		},
		stars: 4, rating: 7.9,
		base: map[string]float64{"cairo": 1600, "hurghada": 1200, "sharm": 1400, "alex": 1500, "luxor": 1800, "aswan": 1600},
	},
}

// FallbackCatalog builds the synthetic hotel list for one destination.
func FallbackCatalog(dest string) []domain.CanonicalHotel {
	cityName := domain.DestinationName(dest)
	if cityName == "" {
		cityName = "Cairo"
		dest = "cairo"
	}

	out := make([]domain.CanonicalHotel, 0, len(samples))
	for i, s := range samples {
		name := s.names[dest]
		if name == "" {
			name = fmt.Sprintf("%s Grand %d", cityName, i+1)
		}
		base := s.base[dest]
		if base == 0 {
			base = 2000
		}
		quotes := []domain.PriceQuote{
			quote("Booking.com", base, base*1.3),
			quote("Expedia", base*1.08, base*1.35),
			quote("Hotels.com", base*0.95, base*1.25),
			quote("Agoda", base*1.03, base*1.28),
		}
		h := domain.CanonicalHotel{
			ID:         i + 1,
			Name:       name,
			City:       dest,
			CityName:   cityName,
			Stars:      s.stars,
			Rating:     s.rating,
			Image:      fmt.Sprintf("https://picsum.photos/seed/hotel%s%d/600/400", dest, i),
			Features:   []string{"Free WiFi", "Pool", "Restaurant", "Spa"},
			Prices:     quotes,
			BestPrice:  quotes[2].Price,
			BestSource: &quotes[2],
			PriceCount: len(quotes),
			Discount:   rand.Intn(30) + 10,
		}
		out = append(out, h)
	}
	return out
}

func quote(source string, price, original float64) domain.PriceQuote {
	p := math.Round(price)
	o := math.Round(original)
	return domain.PriceQuote{Source: source, Price: p, OriginalPrice: &o, Currency: "EGP"}
}
