// Package matcher decides whether free-text route input denotes an airport.
package matcher

import (
	"strings"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchesAirport reports whether the query is a case-insensitive substring of
// the airport code or name, or of its city or country code or name. A blank
// query never matches.
func MatchesAirport(query string, airport models.Airport) bool {
	q := normalize(query)
	if q == "" {
		return false
	}

	fields := [...]string{
		airport.Code,
		airport.Name,
		airport.City.Name,
		airport.City.Code,
		airport.Country.Name,
		airport.Country.Code,
	}
	for _, field := range fields {
		if strings.Contains(normalize(field), q) {
			return true
		}
	}
	return false
}
