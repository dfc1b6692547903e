package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/domain"
)

// Client is the metasearch source (Google Hotels via SerpAPI). One property
// can carry several quotes, one per sales channel Google compares.
type Client struct {
	base string
	key  string
	hc   *http.Client
}

func New(base, key string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{base: base, key: key, hc: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) Name() string { return domain.SourceGoogle }

var _ domain.Provider = (*Client)(nil)

type searchResp struct {
	Properties []property `json:"properties"`
}

type property struct {
	Name          string  `json:"name"`
	HotelClass    float64 `json:"hotel_class"`
	OverallRating float64 `json:"overall_rating"`
	Images        []struct {
		Thumbnail     string `json:"thumbnail"`
		OriginalImage string `json:"original_image"`
	} `json:"images"`
	Amenities []string `json:"amenities"`
	Prices    []struct {
		Source       string `json:"source"`
		Link         string `json:"link"`
		RatePerNight struct {
			ExtractedLowest float64 `json:"extracted_lowest"`
		} `json:"rate_per_night"`
	} `json:"prices"`
}

func (c *Client) Search(ctx context.Context, q domain.Query) ([]domain.RawOffer, error) {
	cityName := domain.DestinationName(q.Destination)
	if cityName == "" {
		return nil, &domain.ProviderError{Source: c.Name(), Message: "destination not covered"}
	}

	params := url.Values{
		"engine":         {"google_hotels"},
		"q":              {fmt.Sprintf("hotels in %s egypt", cityName)},
		"check_in_date":  {q.CheckIn.Format("2006-01-02")},
		"check_out_date": {q.CheckOut.Format("2006-01-02")},
		"adults":         {fmt.Sprintf("%d", q.Adults)},
		"currency":       {"EGP"},
		"gl":             {"eg"},
		"hl":             {"en"},
		"api_key":        {c.key},
	}

	u := fmt.Sprintf("%s/search.json?%s", c.base, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.ProviderError{Source: c.Name(), Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &domain.ProviderError{Source: c.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()
	observability.ObserveExternal(c.Name(), "google-hotels", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.ProviderError{
			Source:  c.Name(),
			Message: fmt.Sprintf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var sr searchResp
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &domain.ProviderError{Source: c.Name(), Message: "malformed payload: " + err.Error()}
	}

	out := make([]domain.RawOffer, 0, len(sr.Properties))
	for _, p := range sr.Properties {
		o := domain.RawOffer{
			Source:   c.Name(),
			Name:     p.Name,
			Stars:    int(p.HotelClass),
			Rating:   p.OverallRating,
			Features: p.Amenities,
		}
		for _, img := range p.Images {
			if img.OriginalImage != "" {
				o.Images = append(o.Images, img.OriginalImage)
			}
		}
		for _, pr := range p.Prices {
			if pr.RatePerNight.ExtractedLowest <= 0 {
				continue
			}
			o.Quotes = append(o.Quotes, domain.PriceQuote{
				Source:   pr.Source,
				Price:    pr.RatePerNight.ExtractedLowest,
				Currency: "EGP",
				URL:      pr.Link,
			})
		}
		// quoteless properties still enrich a group another source priced
		out = append(out, o)
	}
	return out, nil
}
