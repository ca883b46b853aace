package filter

import (
	"time"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/models"
	"github.com/dharmasatrya/flightreservation/internal/ranking"
)

// Apply narrows the flights with the optional filters and then ranks them.
// Prices are compared after the promo adjustment, against the fare the flight
// resolves to in the requested cabin.
func Apply(flights []models.Flight, filters *models.SearchFilters, criterion ranking.Criterion, cabin models.CabinClass, policy fare.Policy) []models.Flight {
	filtered := applyFilters(flights, filters, cabin, policy)
	return ranking.Rank(filtered, criterion, cabin, policy)
}

func applyFilters(flights []models.Flight, filters *models.SearchFilters, cabin models.CabinClass, policy fare.Policy) []models.Flight {
	if filters == nil {
		return flights
	}

	result := make([]models.Flight, 0, len(flights))

	for _, f := range flights {
		if matchesFilters(f, filters, cabin, policy) {
			result = append(result, f)
		}
	}

	return result
}

func matchesFilters(f models.Flight, filters *models.SearchFilters, cabin models.CabinClass, policy fare.Policy) bool {
	resolved, ok := policy.Resolve(f, cabin)

	if filters.PriceMin != nil || filters.PriceMax != nil {
		if !ok {
			return false
		}
		price := policy.AdjustedPrice(resolved)
		if filters.PriceMin != nil && price < *filters.PriceMin {
			return false
		}
		if filters.PriceMax != nil && price > *filters.PriceMax {
			return false
		}
	}

	if len(filters.Brands) > 0 {
		if !ok {
			return false
		}
		found := false
		for _, brand := range filters.Brands {
			if resolved.BrandCode == brand {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	depTime := ranking.DepartureMinutes(f.DepartureDateTimeDisplay)

	if filters.DepartureTimeMin != nil {
		minTime, err := parseTimeOfDay(*filters.DepartureTimeMin)
		if err == nil && depTime < minTime {
			return false
		}
	}
	if filters.DepartureTimeMax != nil {
		maxTime, err := parseTimeOfDay(*filters.DepartureTimeMax)
		if err == nil && depTime > maxTime {
			return false
		}
	}

	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
