package app

import (
	"sort"
	"strings"

	"stayfinder/internal/domain"
)

// DefaultStopwords are the marketing tokens stripped from hotel names before
// two sources are compared for identity.
var DefaultStopwords = []string{"hotel", "resort", "&", "the", "le", "la"}

// NameNormalizer turns a display name into a grouping key. The stopword list
// is configurable so edge cases can be exercised without touching the engine.
type NameNormalizer struct {
	Stopwords []string
}

func NewNameNormalizer(stopwords []string) NameNormalizer {
	if len(stopwords) == 0 {
		stopwords = DefaultStopwords
	}
	return NameNormalizer{Stopwords: stopwords}
}

// Key lowercases, strips stopword substrings, collapses whitespace and trims.
// Two offers with equal keys are treated as the same physical hotel. This is
// heuristic: dissimilar brandings of one property will not merge, and exact
// key collisions between distinct hotels are resolved first-writer-wins.
func (n NameNormalizer) Key(name string) string {
	s := strings.ToLower(name)
	for _, t := range n.Stopwords {
		s = strings.ReplaceAll(s, t, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// Merger groups per-source offers into canonical hotels.
//
// Merge rules, per field:
//
//	Name, Stars, City:  keep-first, in source priority order
//	Rating:             max across sources (provider scales are not normalized)
//	Quotes, Images:     always-append
//	Features:           always-append, deduplicated
type Merger struct {
	norm  NameNormalizer
	order []string // fixed source priority; also makes output deterministic
}

func NewMerger(norm NameNormalizer, order []string) *Merger {
	return &Merger{norm: norm, order: order}
}

type mergeGroup struct {
	hotel domain.CanonicalHotel
	seen  map[string]bool // feature dedup
}

// Merge resolves identity across sources and computes best prices. Hotels
// without a single positive-priced quote are dropped. Output is ordered by
// ascending best price; ids are stable for a given input and priority order.
func (m *Merger) Merge(bySource map[string][]domain.RawOffer, dest string) []domain.CanonicalHotel {
	groups := map[string]*mergeGroup{}
	var keys []string // insertion order

	for _, src := range m.order {
		for _, o := range bySource[src] {
			key := m.norm.Key(o.Name)
			if key == "" {
				continue
			}
			g, ok := groups[key]
			if !ok {
				g = &mergeGroup{
					hotel: domain.CanonicalHotel{
						Name:     o.Name,
						City:     dest,
						CityName: domain.DestinationName(dest),
						Stars:    o.Stars,
					},
					seen: map[string]bool{},
				}
				groups[key] = g
				keys = append(keys, key)
			}
			absorb(g, o)
		}
	}

	out := make([]domain.CanonicalHotel, 0, len(keys))
	for _, key := range keys {
		h := groups[key].hotel
		best := -1
		for qi, q := range h.Prices {
			if best < 0 || q.Price < h.Prices[best].Price {
				best = qi
			}
		}
		if best < 0 {
			continue
		}
		h.BestPrice = h.Prices[best].Price
		h.BestSource = &h.Prices[best]
		h.PriceCount = len(h.Prices)
		if len(h.Images) > 0 {
			h.Image = h.Images[0]
		}
		h.ID = len(out) + 1
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].BestPrice < out[j].BestPrice })
	return out
}

// absorb applies the always-append rules plus the rating max-rule. Identity
// fields were fixed by whichever source created the group.
func absorb(g *mergeGroup, o domain.RawOffer) {
	for _, q := range o.Quotes {
		if q.Price > 0 {
			g.hotel.Prices = append(g.hotel.Prices, q)
		}
	}
	if o.Image != "" {
		g.hotel.Images = append(g.hotel.Images, o.Image)
	}
	g.hotel.Images = append(g.hotel.Images, o.Images...)
	for _, f := range o.Features {
		if !g.seen[f] {
			g.seen[f] = true
			g.hotel.Features = append(g.hotel.Features, f)
		}
	}
	if o.Rating > g.hotel.Rating {
		g.hotel.Rating = o.Rating
	}
}
