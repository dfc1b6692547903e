package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
)

type Handlers struct {
	Search  *app.SearchService
	Details *app.DetailService
	Limiter *IPLimiter
}

type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Fallback any    `json:"fallback,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api/hotels", func(r chi.Router) {
		if h.Limiter != nil {
			r.Use(h.Limiter.Middleware)
		}
		r.Get("/cities", h.listCities)
		r.Get("/search", h.search)
		r.Get("/{id}", h.getHotel)
		r.Get("/{id}/reviews", h.listReviews)
	})
}

func (h *Handlers) listCities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: domain.Destinations})
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: err.Error()})
		return
	}

	res, err := h.Search.Search(r.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: verr.Message})
			return
		}
		// the caller is never left with a hard empty state
		log.Error().Err(err).Str("city", req.Destination).Msg("search failed")
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success:  false,
			Error:    "search failed",
			Fallback: app.FallbackCatalog(req.Destination),
		})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: res})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	details, err := h.Details.HotelDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, envelope{Success: false, Error: "hotel not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "details lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: details})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Details.HotelReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "reviews lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: reviews})
}

func parseSearchRequest(r *http.Request) (domain.SearchRequest, error) {
	q := r.URL.Query()

	req := domain.SearchRequest{
		Destination: q.Get("city"),
		CheckIn:     q.Get("checkIn"),
		CheckOut:    q.Get("checkOut"),
		Adults:      1,
		Sort:        domain.SortMode(q.Get("sort")),
	}
	if req.Destination == "" {
		req.Destination = "cairo"
	}
	switch req.Sort {
	case domain.SortBest, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating, domain.SortStars:
	default:
		req.Sort = domain.SortBest
	}

	if v := q.Get("adults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, &domain.ValidationError{Message: "adults must be a positive integer"}
		}
		req.Adults = n
	}
	if v := q.Get("stars"); v != "" && v != "all" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			return req, &domain.ValidationError{Message: "stars must be 1-5 or \"all\""}
		}
		req.Filters.Stars = &n
	}
	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return req, &domain.ValidationError{Message: "minPrice must be a non-negative number"}
		}
		req.Filters.MinPrice = &f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return req, &domain.ValidationError{Message: "maxPrice must be a non-negative number"}
		}
		req.Filters.MaxPrice = &f
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}
