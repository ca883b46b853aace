package models

type SearchCriteria struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Date        string     `json:"date,omitempty"`
	Passengers  int        `json:"passengers"`
	CabinClass  CabinClass `json:"cabin_class"`
}

type SearchResponse struct {
	Variant        string          `json:"variant"`
	SearchCriteria SearchCriteria  `json:"search_criteria"`
	Flight         Flight          `json:"flight"`
	Fare           FareSubcategory `json:"fare"`
	FarePrice      string          `json:"fare_price"`
	Flights        []Flight        `json:"flights"`
}

type CabinSummary struct {
	Cabin     CabinClass       `json:"cabin"`
	Available bool             `json:"available"`
	Fare      *FareSubcategory `json:"fare,omitempty"`
	Price     float64          `json:"price"`
	Formatted string           `json:"formatted,omitempty"`
}

type FareCard struct {
	Fare       FareSubcategory `json:"fare"`
	Price      float64         `json:"price"`
	Formatted  string          `json:"formatted"`
	Selectable bool            `json:"selectable"`
}

type FlightCard struct {
	Key       string       `json:"key"`
	Flight    Flight       `json:"flight"`
	Economy   CabinSummary `json:"economy"`
	Business  CabinSummary `json:"business"`
	Requested CabinSummary `json:"requested"`
	Expanded  *CabinClass  `json:"expanded,omitempty"`
	FareCards []FareCard   `json:"fare_cards,omitempty"`
}

type ReservationResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	DateDisplay    string         `json:"date_display,omitempty"`
	SortBy         string         `json:"sort_by"`
	PromoEnabled   bool           `json:"promo_enabled"`
	Source         string         `json:"source"`
	Flights        []FlightCard   `json:"flights"`
}

type SelectionResponse struct {
	State     string       `json:"state"`
	Expanded  *PanelView   `json:"expanded,omitempty"`
	Pending   *PendingView `json:"pending,omitempty"`
	Booking   *Booking     `json:"booking,omitempty"`
	Formatted string       `json:"formatted,omitempty"`
}

type PanelView struct {
	FlightKey string     `json:"flight_key"`
	Cabin     CabinClass `json:"cabin"`
}

type PendingView struct {
	FlightKey string          `json:"flight_key"`
	Cabin     CabinClass      `json:"cabin"`
	Fare      FareSubcategory `json:"fare"`
	Price     float64         `json:"price"`
}

type BookingResponse struct {
	Booking        Booking `json:"booking"`
	TotalFormatted string  `json:"total_formatted"`
	DateDisplay    string  `json:"date_display,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
