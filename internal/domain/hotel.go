package domain

// Canonical source keys, in merge priority order.
const (
	SourceAmadeus = "amadeus"
	SourceBooking = "booking"
	SourceGoogle  = "google"
)

// SourceOrder fixes both the identity-resolution priority and the set of
// sources reported in search metadata.
var SourceOrder = []string{SourceAmadeus, SourceBooking, SourceGoogle}

// PriceQuote is one bookable price from one sales channel.
type PriceQuote struct {
	Source        string   `json:"source"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Currency      string   `json:"currency"`
	URL           string   `json:"url,omitempty"`
}

// RawOffer is a single provider's view of one hotel, before identity
// resolution. GDS and consumer sources carry one quote; metasearch sources
// may carry several (one per sales channel they compare).
type RawOffer struct {
	Source   string
	Name     string
	Stars    int
	Rating   float64
	Image    string
	Images   []string
	Features []string
	Quotes   []PriceQuote
}

// CanonicalHotel is the merged, cross-source hotel record returned to
// callers. Quotes from every contributing source sit side by side;
// BestPrice/BestSource point at the cheapest positive quote.
type CanonicalHotel struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	City       string       `json:"city"`
	CityName   string       `json:"cityName"`
	Stars      int          `json:"stars"`
	Rating     float64      `json:"rating"`
	Image      string       `json:"image,omitempty"`
	Images     []string     `json:"images,omitempty"`
	Features   []string     `json:"features,omitempty"`
	Prices     []PriceQuote `json:"prices"`
	BestPrice  float64      `json:"bestPrice"`
	BestSource *PriceQuote  `json:"bestSource,omitempty"`
	PriceCount int          `json:"priceCount"`
	Discount   int          `json:"discount,omitempty"`
}
