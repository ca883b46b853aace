package models

type CabinClass string

const (
	CabinEconomy  CabinClass = "ECONOMY"
	CabinBusiness CabinClass = "BUSINESS"
)

func (c CabinClass) Valid() bool {
	return c == CabinEconomy || c == CabinBusiness
}

type BrandCode string

const (
	BrandEcoFly   BrandCode = "ecoFly"
	BrandExtraFly BrandCode = "extraFly"
	BrandPrimeFly BrandCode = "primeFly"
)

func (b BrandCode) Valid() bool {
	switch b {
	case BrandEcoFly, BrandExtraFly, BrandPrimeFly:
		return true
	}
	return false
}

type FareStatus string

const (
	FareAvailable FareStatus = "AVAILABLE"
	FareError     FareStatus = "ERROR"
)

type City struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Airport struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	City    City    `json:"city"`
	Country Country `json:"country"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FareSubcategory is a priced brand within a cabin. Order only affects display.
type FareSubcategory struct {
	BrandCode BrandCode  `json:"brandCode"`
	Price     Price      `json:"price"`
	Order     int        `json:"order"`
	Status    FareStatus `json:"status"`
	Rights    []string   `json:"rights"`
}

func (f FareSubcategory) Available() bool {
	return f.Status == FareAvailable
}

type FareCategory struct {
	Subcategories []FareSubcategory `json:"subcategories"`
}

// HasAvailable reports whether at least one subcategory can be sold.
func (c FareCategory) HasAvailable() bool {
	for _, s := range c.Subcategories {
		if s.Available() {
			return true
		}
	}
	return false
}

type FareCategories struct {
	Economy  FareCategory `json:"ECONOMY"`
	Business FareCategory `json:"BUSINESS"`
}

type Flight struct {
	ID                       string         `json:"id,omitempty"`
	OriginAirport            Airport        `json:"originAirport"`
	DestinationAirport       Airport        `json:"destinationAirport"`
	DepartureDateTimeDisplay string         `json:"departureDateTimeDisplay"`
	ArrivalDateTimeDisplay   string         `json:"arrivalDateTimeDisplay"`
	FlightDuration           string         `json:"flightDuration"`
	FareCategories           FareCategories `json:"fareCategories"`
}

// Cabin returns the fare category for the given cabin class. Unknown cabins
// yield an empty category.
func (f Flight) Cabin(cabin CabinClass) FareCategory {
	switch cabin {
	case CabinEconomy:
		return f.FareCategories.Economy
	case CabinBusiness:
		return f.FareCategories.Business
	default:
		return FareCategory{}
	}
}

type Booking struct {
	Flight       Flight          `json:"flight"`
	Fare         FareSubcategory `json:"fare"`
	Cabin        CabinClass      `json:"cabin"`
	Passengers   int             `json:"passengers"`
	TotalPrice   float64         `json:"totalPrice"`
	Currency     string          `json:"currency"`
	Date         string          `json:"date,omitempty"`
	Origin       string          `json:"origin,omitempty"`
	Destination  string          `json:"destination,omitempty"`
	PromoApplied bool            `json:"promoApplied"`
}
