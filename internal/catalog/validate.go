package catalog

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

// Error reports the first flight that breaks the catalog contract.
type Error struct {
	Index  int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog flight %d: %s", e.Index, e.Reason)
}

func validate(i int, rf rawFlight) (models.Flight, error) {
	f := rf.Flight

	if strings.TrimSpace(rf.OriginAirport.Code) == "" {
		return f, &Error{Index: i, Reason: "origin airport code is empty"}
	}
	if strings.TrimSpace(rf.DestinationAirport.Code) == "" {
		return f, &Error{Index: i, Reason: "destination airport code is empty"}
	}
	if rf.FareCategories == nil {
		return f, &Error{Index: i, Reason: "fareCategories missing"}
	}
	if rf.FareCategories.Economy == nil {
		return f, &Error{Index: i, Reason: "ECONOMY fare category missing"}
	}
	if rf.FareCategories.Business == nil {
		return f, &Error{Index: i, Reason: "BUSINESS fare category missing"}
	}

	f.FareCategories = models.FareCategories{
		Economy:  *rf.FareCategories.Economy,
		Business: *rf.FareCategories.Business,
	}

	for _, cabin := range []models.CabinClass{models.CabinEconomy, models.CabinBusiness} {
		for j, s := range f.Cabin(cabin).Subcategories {
			if err := validateSubcategory(s); err != nil {
				return f, &Error{Index: i, Reason: fmt.Sprintf("%s subcategory %d: %s", cabin, j, err)}
			}
		}
	}

	return f, nil
}

func validateSubcategory(s models.FareSubcategory) error {
	if !s.BrandCode.Valid() {
		return fmt.Errorf("unknown brand %q", s.BrandCode)
	}
	if s.Status != models.FareAvailable && s.Status != models.FareError {
		return fmt.Errorf("unknown status %q", s.Status)
	}
	if s.Price.Amount < 0 {
		return fmt.Errorf("negative price %v", s.Price.Amount)
	}
	if s.Price.Currency == "" {
		return fmt.Errorf("missing currency")
	}
	return nil
}
