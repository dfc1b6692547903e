package app

import (
	"sort"

	"stayfinder/internal/domain"
)

// Rank applies user filters and the requested sort. Pure; the input slice is
// not modified.
func Rank(hotels []domain.CanonicalHotel, f domain.Filters, mode domain.SortMode) []domain.CanonicalHotel {
	out := make([]domain.CanonicalHotel, 0, len(hotels))
	for _, h := range hotels {
		if f.Stars != nil && h.Stars != *f.Stars {
			continue
		}
		if f.MinPrice != nil && h.BestPrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && h.BestPrice > *f.MaxPrice {
			continue
		}
		out = append(out, h)
	}

	switch mode {
	case domain.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].BestPrice < out[j].BestPrice })
	case domain.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].BestPrice > out[j].BestPrice })
	case domain.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case domain.SortStars:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	default: // SortBest: composite of rating and discount
		sort.SliceStable(out, func(i, j int) bool {
			return score(out[i]) > score(out[j])
		})
	}
	return out
}

func score(h domain.CanonicalHotel) float64 {
	return h.Rating*10 + float64(h.Discount)
}
