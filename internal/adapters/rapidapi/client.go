package rapidapi

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

// Booking.com destination ids for the supported destinations.
var destIDs = map[string]string{
	"cairo":    "-290692",
	"hurghada": "-290263",
	"sharm":    "-302053",
	"alex":     "-290263",
	"luxor":    "-290982",
	"aswan":    "-286247",
}

// Client is the consumer travel source (Booking.com via the RapidAPI
// gateway). Auth is a static key pair in request headers.
type Client struct {
	host string
	key  string
	hc   *http.Client
}

func New(host, key string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{host: host, key: key, hc: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) Name() string { return domain.SourceBooking }

// SetHTTPClient swaps the underlying HTTP client; tests use it to trust a
// local TLS server.
func (c *Client) SetHTTPClient(hc *http.Client) { c.hc = hc }

var (
	_ domain.Provider       = (*Client)(nil)
	_ domain.DetailProvider = (*Client)(nil)
	_ domain.ReviewProvider = (*Client)(nil)
)

type searchResp struct {
	Result []struct {
		HotelID        json.Number `json:"hotel_id"`
		HotelName      string      `json:"hotel_name"`
		HotelNameTrans string      `json:"hotel_name_trans"`
		Class          float64     `json:"class"`
		ReviewScore    float64     `json:"review_score"`
		MaxPhotoURL    string      `json:"max_photo_url"`
		MainPhotoURL   string      `json:"main_photo_url"`
		MinTotalPrice  float64     `json:"min_total_price"`
		CurrencyCode   string      `json:"currency_code"`
		URL            string      `json:"url"`
		Composite      struct {
			Gross struct {
				Value float64 `json:"value"`
			} `json:"gross_amount"`
			Strikethrough struct {
				Value float64 `json:"value"`
			} `json:"strikethrough_amount"`
		} `json:"composite_price_breakdown"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, q domain.Query) ([]domain.RawOffer, error) {
	destID, ok := destIDs[q.Destination]
	if !ok {
		return nil, &domain.ProviderError{Source: c.Name(), Message: "destination not covered"}
	}

	params := url.Values{
		"dest_id":            {destID},
		"dest_type":          {"city"},
		"checkin_date":       {q.CheckIn.Format("2006-01-02")},
		"checkout_date":      {q.CheckOut.Format("2006-01-02")},
		"adults_number":      {fmt.Sprintf("%d", q.Adults)},
		"room_number":        {"1"},
		"units":              {"metric"},
		"order_by":           {"popularity"},
		"filter_by_currency": {"EGP"},
		"locale":             {"en-gb"},
		"page_number":        {"0"},
		"include_adjacency":  {"true"},
	}

	var resp searchResp
	if err := c.get(ctx, "/v1/hotels/search", params, &resp); err != nil {
		return nil, &domain.ProviderError{Source: c.Name(), Message: err.Error()}
	}

	out := make([]domain.RawOffer, 0, len(resp.Result))
	for _, h := range resp.Result {
		price := h.MinTotalPrice
		if price <= 0 {
			price = h.Composite.Gross.Value
		}
		if price <= 0 {
			continue
		}
		name := h.HotelNameTrans
		if name == "" {
			name = h.HotelName
		}
		currency := h.CurrencyCode
		if currency == "" {
			currency = "EGP"
		}
		quote := domain.PriceQuote{Source: "Booking.com", Price: price, Currency: currency, URL: h.URL}
		if s := h.Composite.Strikethrough.Value; s > 0 {
			quote.OriginalPrice = &s
		}
		image := h.MaxPhotoURL
		if image == "" {
			image = h.MainPhotoURL
		}
		out = append(out, domain.RawOffer{
			Source: c.Name(),
			Name:   name,
			Stars:  int(h.Class),
			Rating: h.ReviewScore,
			Image:  image,
			Quotes: []domain.PriceQuote{quote},
		})
	}
	return out, nil
}

func (c *Client) HotelDetails(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.get(ctx, "/v1/hotels/data", url.Values{"hotel_id": {id}, "locale": {"en-gb"}}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) HotelReviews(ctx context.Context, id string) ([]map[string]any, error) {
	var resp struct {
		Result []map[string]any `json:"result"`
	}
	params := url.Values{
		"hotel_id":        {id},
		"locale":          {"en-gb"},
		"sort_type":       {"SORT_MOST_RELEVANT"},
		"language_filter": {"en"},
	}
	if err := c.get(ctx, "/v1/hotels/reviews", params, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return []map[string]any{}, nil
	}
	return resp.Result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("https://%s%s?%s", c.host, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.key)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(c.Name(), endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
