package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Query is what the user typed into the search form.
type Query struct {
	Origin      string
	Destination string
	Date        *time.Time
	Passengers  int
	CabinClass  CabinClass
}

type SearchFilters struct {
	PriceMin         *float64    `json:"price_min,omitempty"`
	PriceMax         *float64    `json:"price_max,omitempty"`
	DepartureTimeMin *string     `json:"departure_time_min,omitempty"`
	DepartureTimeMax *string     `json:"departure_time_max,omitempty"`
	Brands           []BrandCode `json:"brands,omitempty"`
}

type SearchRequest struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Date        string     `json:"date,omitempty"`
	Passengers  int        `json:"passengers"`
	CabinClass  CabinClass `json:"cabin_class"`
}

// Normalize fills defaults and checks the fields that make a request
// unparseable. Missing route and date are left to the resolver so that each
// failure keeps its own message.
func (r *SearchRequest) Normalize() error {
	if r.Passengers <= 0 {
		r.Passengers = 1
	}
	if r.CabinClass == "" {
		r.CabinClass = CabinEconomy
	}
	r.CabinClass = CabinClass(strings.ToUpper(string(r.CabinClass)))
	if !r.CabinClass.Valid() {
		return ErrInvalidCabinClass
	}
	if r.Date != "" {
		if _, err := ParseDate(r.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

func (r SearchRequest) Query() Query {
	q := Query{
		Origin:      r.Origin,
		Destination: r.Destination,
		Passengers:  r.Passengers,
		CabinClass:  r.CabinClass,
	}
	if r.Date != "" {
		if d, err := ParseDate(r.Date); err == nil {
			q.Date = &d
		}
	}
	return q
}

// ParseDate accepts a full RFC 3339 instant or a bare calendar date.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

type ToggleRequest struct {
	FlightKey string     `json:"flight_key"`
	Cabin     CabinClass `json:"cabin"`
}

type SelectRequest struct {
	FlightKey string    `json:"flight_key"`
	BrandCode BrandCode `json:"brand_code"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrInvalidCabinClass ValidationError = "cabin_class must be ECONOMY or BUSINESS"
	ErrInvalidDate       ValidationError = "date must be YYYY-MM-DD or RFC 3339"
	ErrInvalidSort       ValidationError = "sort must be price or time"
	ErrUnknownFlight     ValidationError = "flight_key does not match any listed flight"
	ErrUnknownFare       ValidationError = "brand_code does not match any fare in that cabin"
)

// ReservationRequest opens the reservation step. Handoff is the state the
// search step passed along, if any.
type ReservationRequest struct {
	Handoff json.RawMessage `json:"handoff,omitempty"`
	SortBy  string          `json:"sort_by,omitempty"`
	Promo   bool            `json:"promo"`
	Filters *SearchFilters  `json:"filters,omitempty"`
}
