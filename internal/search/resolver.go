// Package search turns a user query into a result over the flight catalog.
package search

import (
	"strings"
	"time"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/matcher"
	"github.com/dharmasatrya/flightreservation/internal/models"
)

type FailureCode string

const (
	MissingRoute        FailureCode = "MISSING_ROUTE"
	MissingDate         FailureCode = "MISSING_DATE"
	NoRouteMatch        FailureCode = "NO_ROUTE"
	NoCabinAvailability FailureCode = "NO_CABIN"
)

var failureMessages = map[FailureCode]string{
	MissingRoute:        "Please enter both origin and destination.",
	MissingDate:         "Please choose a travel date.",
	NoRouteMatch:        "No flights were found for this route.",
	NoCabinAvailability: "No seats are available in the selected cabin for this route.",
}

// Result is either *Success or *Failure.
type Result interface {
	Variant() string
}

type Success struct {
	Flights    []models.Flight
	Flight     models.Flight
	Fare       models.FareSubcategory
	Passengers int
	CabinClass models.CabinClass
	Date       time.Time
}

func (*Success) Variant() string { return "success" }

type Failure struct {
	Code    FailureCode
	Message string
}

func (*Failure) Variant() string { return "error" }

func (f *Failure) Error() string { return f.Message }

func fail(code FailureCode) *Failure {
	return &Failure{Code: code, Message: failureMessages[code]}
}

// Resolve runs the query against the catalog. Checks run in a fixed order and
// stop at the first failure: route present, date present, route matches,
// cabin has seats. Catalog order is preserved in the result.
func Resolve(q models.Query, catalog []models.Flight) Result {
	origin := strings.TrimSpace(q.Origin)
	destination := strings.TrimSpace(q.Destination)

	if origin == "" || destination == "" {
		return fail(MissingRoute)
	}
	if q.Date == nil {
		return fail(MissingDate)
	}

	routed := MatchRoute(origin, destination, catalog)
	if len(routed) == 0 {
		return fail(NoRouteMatch)
	}

	cabin := q.CabinClass
	if cabin == "" {
		cabin = models.CabinEconomy
	}

	available := FilterCabin(routed, cabin)
	if len(available) == 0 {
		return fail(NoCabinAvailability)
	}

	primary := available[0]
	primaryFare, ok := fare.FirstAvailable(primary.Cabin(cabin).Subcategories)
	if !ok {
		// FilterCabin guarantees an AVAILABLE fare; never hand out a
		// non-sellable one as the offer.
		return fail(NoCabinAvailability)
	}

	passengers := q.Passengers
	if passengers < 1 {
		passengers = 1
	}

	return &Success{
		Flights:    available,
		Flight:     primary,
		Fare:       primaryFare,
		Passengers: passengers,
		CabinClass: cabin,
		Date:       *q.Date,
	}
}

func MatchRoute(origin, destination string, catalog []models.Flight) []models.Flight {
	result := make([]models.Flight, 0, len(catalog))
	for _, f := range catalog {
		if matcher.MatchesAirport(origin, f.OriginAirport) &&
			matcher.MatchesAirport(destination, f.DestinationAirport) {
			result = append(result, f)
		}
	}
	return result
}

func FilterCabin(flights []models.Flight, cabin models.CabinClass) []models.Flight {
	result := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if f.Cabin(cabin).HasAvailable() {
			result = append(result, f)
		}
	}
	return result
}
