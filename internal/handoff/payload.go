package handoff

import (
	"time"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

// SearchContext is the persisted form of a successful search. Date is
// RFC 3339 and empty when no date was chosen.
type SearchContext struct {
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	Passengers  int               `json:"passengers"`
	CabinClass  models.CabinClass `json:"cabinClass"`
	Date        string            `json:"date,omitempty"`
}

// Payload is what the search step hands to the reservation step.
type Payload struct {
	Flights []models.Flight `json:"flights"`
	Search  *SearchContext  `json:"search"`
}

// Valid reports whether the payload can drive the reservation view.
func (p *Payload) Valid() bool {
	return p != nil && len(p.Flights) > 0 && p.Search != nil
}

// TravelDate parses the stored date; ok is false when absent or malformed.
func (s SearchContext) TravelDate() (time.Time, bool) {
	if s.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewPayload builds the persisted payload for a resolved search.
func NewPayload(flights []models.Flight, origin, destination string, passengers int, cabin models.CabinClass, date time.Time) Payload {
	return Payload{
		Flights: flights,
		Search: &SearchContext{
			Origin:      origin,
			Destination: destination,
			Passengers:  passengers,
			CabinClass:  cabin,
			Date:        FormatDate(date),
		},
	}
}

// DefaultPayload is what the reservation view shows when nothing was handed
// over and nothing is stored: the whole catalog, routed by its first entry.
func DefaultPayload(catalog []models.Flight) Payload {
	p := Payload{
		Flights: catalog,
		Search: &SearchContext{
			Passengers: 1,
			CabinClass: models.CabinEconomy,
		},
	}
	if len(catalog) > 0 {
		p.Search.Origin = catalog[0].OriginAirport.Code
		p.Search.Destination = catalog[0].DestinationAirport.Code
	}
	return p
}
