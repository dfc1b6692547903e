package serpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayfinder/internal/adapters/serpapi"
	"stayfinder/internal/domain"
)

func testQuery() domain.Query {
	return domain.Query{
		Destination: "luxor",
		CheckIn:     time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
		Adults:      2,
	}
}

func TestSearch_MapsMultiQuoteProperties(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("engine"); got != "google_hotels" {
			t.Errorf("engine = %s", got)
		}
		if got := q.Get("q"); got != "hotels in Luxor egypt" {
			t.Errorf("q = %s", got)
		}
		if got := q.Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %s", got)
		}
		_, _ = w.Write([]byte(`{"properties":[
			{"name":"Winter Palace","hotel_class":5,"overall_rating":9.3,
			 "amenities":["Pool","Spa"],
			 "images":[{"thumbnail":"t1","original_image":"https://img/full1.jpg"}],
			 "prices":[
				{"source":"Booking.com","link":"https://b/1","rate_per_night":{"extracted_lowest":4100}},
				{"source":"Expedia","link":"https://e/1","rate_per_night":{"extracted_lowest":3950}},
				{"source":"Broken","rate_per_night":{"extracted_lowest":0}}
			 ]},
			{"name":"No Price Lodge","hotel_class":3,"overall_rating":7.8}
		]}`))
	}))
	defer ts.Close()

	cl, err := serpapi.New(ts.URL, "test-key", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	offers, err := cl.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(offers))
	}

	wp := offers[0]
	if wp.Name != "Winter Palace" || wp.Stars != 5 || wp.Rating != 9.3 {
		t.Fatalf("unexpected offer: %+v", wp)
	}
	if len(wp.Quotes) != 2 {
		t.Fatalf("expected 2 positive quotes, got %+v", wp.Quotes)
	}
	if wp.Quotes[1].Source != "Expedia" || wp.Quotes[1].Price != 3950 || wp.Quotes[1].URL != "https://e/1" {
		t.Fatalf("unexpected quote: %+v", wp.Quotes[1])
	}
	if len(wp.Images) != 1 || wp.Images[0] != "https://img/full1.jpg" {
		t.Fatalf("unexpected images: %+v", wp.Images)
	}

	// quoteless properties are kept; the merge stage decides their fate
	if offers[1].Name != "No Price Lodge" || len(offers[1].Quotes) != 0 {
		t.Fatalf("unexpected quoteless property: %+v", offers[1])
	}
}

func TestSearch_MalformedPayloadIsProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties": "nope"`))
	}))
	defer ts.Close()

	cl, _ := serpapi.New(ts.URL, "test-key", 5*time.Second)
	_, err := cl.Search(context.Background(), testQuery())
	if _, ok := err.(*domain.ProviderError); !ok {
		t.Fatalf("expected *domain.ProviderError, got %T (%v)", err, err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := serpapi.New("http://x", "", time.Second); err == nil {
		t.Fatal("expected error for missing key")
	}
}
