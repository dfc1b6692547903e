package domain

import (
	"fmt"
	"time"
)

// Destination is one of the fixed set of supported search targets.
type Destination struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Destinations is the supported set, in display order.
var Destinations = []Destination{
	{Key: "cairo", Name: "Cairo"},
	{Key: "hurghada", Name: "Hurghada"},
	{Key: "sharm", Name: "Sharm El Sheikh"},
	{Key: "alex", Name: "Alexandria"},
	{Key: "luxor", Name: "Luxor"},
	{Key: "aswan", Name: "Aswan"},
	{Key: "marsa", Name: "Marsa Alam"},
}

// DestinationName returns the display name for a destination key, or ""
// when the key is not supported.
func DestinationName(key string) string {
	for _, d := range Destinations {
		if d.Key == key {
			return d.Name
		}
	}
	return ""
}

type SortMode string

const (
	SortBest      SortMode = "best"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortRating    SortMode = "rating"
	SortStars     SortMode = "stars"
)

// Filters are the optional user constraints applied after merge.
type Filters struct {
	Stars    *int
	MinPrice *float64
	MaxPrice *float64
}

// SearchRequest is the inbound search as parsed from the transport layer.
// CheckIn/CheckOut are "YYYY-MM-DD" or empty (defaults apply).
type SearchRequest struct {
	Destination string
	CheckIn     string
	CheckOut    string
	Adults      int
	Filters     Filters
	Sort        SortMode
}

const (
	dateLayout = "2006-01-02"
	maxNights  = 30
)

// Validate checks the request against a caller-supplied clock and returns a
// *ValidationError describing the first problem found. Dates left empty are
// not validated here; the aggregator fills defaults.
func (r SearchRequest) Validate(now time.Time) error {
	if DestinationName(r.Destination) == "" {
		return &ValidationError{Message: fmt.Sprintf("unsupported destination %q", r.Destination)}
	}
	if r.Adults < 1 {
		return &ValidationError{Message: "adults must be a positive integer"}
	}
	var in, out time.Time
	if r.CheckIn != "" {
		var err error
		if in, err = time.Parse(dateLayout, r.CheckIn); err != nil {
			return &ValidationError{Message: "check-in date is not a valid date"}
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if in.Before(today) {
			return &ValidationError{Message: "check-in date must be today or later"}
		}
	}
	if r.CheckOut != "" {
		var err error
		if out, err = time.Parse(dateLayout, r.CheckOut); err != nil {
			return &ValidationError{Message: "check-out date is not a valid date"}
		}
	}
	if r.CheckIn != "" && r.CheckOut != "" {
		if !out.After(in) {
			return &ValidationError{Message: "check-out date must be after check-in"}
		}
		if nights := int(out.Sub(in).Hours() / 24); nights > maxNights {
			return &ValidationError{Message: fmt.Sprintf("maximum stay is %d nights", maxNights)}
		}
	}
	return nil
}

// Query is a fully resolved search handed to provider adapters: destination
// validated, dates defaulted, party size set.
type Query struct {
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      int
}

// SearchMeta describes where the hotels in a SearchResult came from.
type SearchMeta struct {
	SearchID     string          `json:"searchId"`
	Total        int             `json:"total"`
	City         string          `json:"city"`
	CheckIn      string          `json:"checkIn"`
	CheckOut     string          `json:"checkOut"`
	Sources      map[string]bool `json:"sources"`
	UsedFallback bool            `json:"fallback"`
	Errors       []ProviderError `json:"errors,omitempty"`
}

// SearchResult is the aggregator's always-populated answer.
type SearchResult struct {
	Hotels []CanonicalHotel `json:"hotels"`
	Meta   SearchMeta       `json:"meta"`
}
