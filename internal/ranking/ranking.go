package ranking

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/models"
)

type Criterion string

const (
	ByPrice Criterion = "price"
	ByTime  Criterion = "time"
)

func ParseCriterion(s string) (Criterion, bool) {
	switch Criterion(strings.ToLower(strings.TrimSpace(s))) {
	case "", ByPrice:
		return ByPrice, true
	case ByTime:
		return ByTime, true
	}
	return "", false
}

// Rank returns a new slice ordered by the criterion. Ties keep their input
// order, so ranking an already ranked list is a no-op.
func Rank(flights []models.Flight, criterion Criterion, cabin models.CabinClass, policy fare.Policy) []models.Flight {
	sorted := make([]models.Flight, len(flights))
	copy(sorted, flights)

	if len(sorted) <= 1 {
		return sorted
	}

	switch criterion {
	case ByTime:
		keys := make([]int, len(sorted))
		for i, f := range sorted {
			keys[i] = DepartureMinutes(f.DepartureDateTimeDisplay)
		}
		sortStableBy(sorted, func(i, j int) bool { return keys[i] < keys[j] })

	default:
		keys := make([]float64, len(sorted))
		for i, f := range sorted {
			keys[i] = PriceKey(f, cabin, policy)
		}
		sortStableBy(sorted, func(i, j int) bool { return keys[i] < keys[j] })
	}

	return sorted
}

// PriceKey is the adjusted price of the flight's resolved fare, or +Inf when
// the cabin has nothing for sale.
func PriceKey(f models.Flight, cabin models.CabinClass, policy fare.Policy) float64 {
	resolved, ok := policy.Resolve(f, cabin)
	if !ok {
		return math.Inf(1)
	}
	return policy.AdjustedPrice(resolved)
}

// DepartureMinutes converts an HH:MM display string to minutes since
// midnight. Missing or non-numeric parts count as zero.
func DepartureMinutes(display string) int {
	parts := strings.Split(display, ":")
	hours := atoiOrZero(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes = atoiOrZero(parts[1])
	}
	return hours*60 + minutes
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// sortStableBy sorts flights with less evaluated against the positions the
// keys were computed at.
func sortStableBy(flights []models.Flight, less func(i, j int) bool) {
	idx := make([]int, len(flights))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })

	ordered := make([]models.Flight, len(flights))
	for i, k := range idx {
		ordered[i] = flights[k]
	}
	copy(flights, ordered)
}
