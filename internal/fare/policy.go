// Package fare decides which fare a flight offers in a cabin and what the user
// pays for it. Every price shown anywhere goes through Policy so the list,
// the fare cards, the confirmation and the booking never disagree.
package fare

import (
	"github.com/dharmasatrya/flightreservation/internal/models"
)

// PromoBrand is the only brand discounted, and the only one purchasable, in
// promo mode.
const PromoBrand = models.BrandEcoFly

const promoDivisor = 2

type Policy struct {
	PromoEnabled bool
}

func NewPolicy(promoEnabled bool) Policy {
	return Policy{PromoEnabled: promoEnabled}
}

// Resolve returns the fare the flight offers in the cabin. ok is false when the
// cabin has no AVAILABLE subcategory.
func (p Policy) Resolve(flight models.Flight, cabin models.CabinClass) (models.FareSubcategory, bool) {
	subcategories := flight.Cabin(cabin).Subcategories

	if p.PromoEnabled {
		for _, s := range subcategories {
			if s.Available() && s.BrandCode == PromoBrand {
				return s, true
			}
		}
	}

	return FirstAvailable(subcategories)
}

// AdjustedPrice is the per-passenger price after the promo discount.
func (p Policy) AdjustedPrice(fare models.FareSubcategory) float64 {
	if p.PromoEnabled && fare.BrandCode == PromoBrand {
		return fare.Price.Amount / promoDivisor
	}
	return fare.Price.Amount
}

// Selectable reports whether a fare card may be purchased. Fares that are not
// AVAILABLE are never selectable, promo or not. Promo mode also keeps other
// brands visible for comparison but disables them.
func (p Policy) Selectable(fare models.FareSubcategory) bool {
	if !fare.Available() {
		return false
	}
	if p.PromoEnabled && fare.BrandCode != PromoBrand {
		return false
	}
	return true
}

// Summary resolves the cabin and prices it in one step, for per-cabin tiles.
func (p Policy) Summary(flight models.Flight, cabin models.CabinClass) models.CabinSummary {
	summary := models.CabinSummary{Cabin: cabin}
	resolved, ok := p.Resolve(flight, cabin)
	if !ok {
		return summary
	}
	summary.Available = true
	summary.Fare = &resolved
	summary.Price = p.AdjustedPrice(resolved)
	return summary
}

// Total is the amount due for the given number of passengers.
func (p Policy) Total(fare models.FareSubcategory, passengers int) float64 {
	return p.AdjustedPrice(fare) * float64(passengers)
}

func FirstAvailable(subcategories []models.FareSubcategory) (models.FareSubcategory, bool) {
	for _, s := range subcategories {
		if s.Available() {
			return s, true
		}
	}
	return models.FareSubcategory{}, false
}

// Find looks up a subcategory by brand within a cabin.
func Find(flight models.Flight, cabin models.CabinClass, brand models.BrandCode) (models.FareSubcategory, bool) {
	for _, s := range flight.Cabin(cabin).Subcategories {
		if s.BrandCode == brand {
			return s, true
		}
	}
	return models.FareSubcategory{}, false
}
