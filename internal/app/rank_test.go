package app_test

import (
	"reflect"
	"testing"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
)

func hotel(name string, stars int, rating, bestPrice float64, discount int) domain.CanonicalHotel {
	return domain.CanonicalHotel{
		Name: name, Stars: stars, Rating: rating,
		BestPrice: bestPrice, Discount: discount,
		Prices: []domain.PriceQuote{{Source: "Booking.com", Price: bestPrice, Currency: "EGP"}},
	}
}

func testHotels() []domain.CanonicalHotel {
	return []domain.CanonicalHotel{
		hotel("A", 5, 9.2, 4200, 10),
		hotel("B", 4, 8.4, 1500, 30),
		hotel("C", 5, 8.8, 5900, 0),
		hotel("D", 3, 7.1, 900, 0),
		hotel("E", 4, 8.4, 2200, 5),
	}
}

func names(hs []domain.CanonicalHotel) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Name
	}
	return out
}

func TestRank_StarFilterExactMatch(t *testing.T) {
	stars := 4
	got := app.Rank(testHotels(), domain.Filters{Stars: &stars}, domain.SortPriceLow)
	if len(got) != 2 {
		t.Fatalf("expected 2 four-star hotels, got %d", len(got))
	}
	for _, h := range got {
		if h.Stars != 4 {
			t.Fatalf("star filter leaked %+v", h)
		}
	}
}

func TestRank_PriceBoundsInclusive(t *testing.T) {
	min, max := 1500.0, 4200.0
	got := app.Rank(testHotels(), domain.Filters{MinPrice: &min, MaxPrice: &max}, domain.SortPriceLow)
	if want := []string{"B", "E", "A"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v, want %v", names(got), want)
	}
}

func TestRank_SortModes(t *testing.T) {
	cases := []struct {
		mode domain.SortMode
		want []string
	}{
		{domain.SortPriceLow, []string{"D", "B", "E", "A", "C"}},
		{domain.SortPriceHigh, []string{"C", "A", "B", "E", "D"}},
		{domain.SortRating, []string{"A", "C", "B", "E", "D"}},
		// stable: B and E (both 4 stars) keep input order
		{domain.SortStars, []string{"A", "C", "B", "E", "D"}},
		// best = rating*10 + discount: B=114, A=102, E=89, C=88, D=71
		{domain.SortBest, []string{"B", "A", "E", "C", "D"}},
	}
	for _, tc := range cases {
		got := app.Rank(testHotels(), domain.Filters{}, tc.mode)
		if !reflect.DeepEqual(names(got), tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.mode, names(got), tc.want)
		}
	}
}

func TestRank_SortIsIdempotent(t *testing.T) {
	once := app.Rank(testHotels(), domain.Filters{}, domain.SortBest)
	twice := app.Rank(once, domain.Filters{}, domain.SortBest)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sorting twice changed order: %v vs %v", names(once), names(twice))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := testHotels()
	before := names(in)
	_ = app.Rank(in, domain.Filters{}, domain.SortPriceHigh)
	if !reflect.DeepEqual(names(in), before) {
		t.Fatalf("input mutated: %v", names(in))
	}
}
