package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/filter"
	"github.com/dharmasatrya/flightreservation/internal/handoff"
	"github.com/dharmasatrya/flightreservation/internal/models"
	"github.com/dharmasatrya/flightreservation/internal/ranking"
	"github.com/dharmasatrya/flightreservation/internal/selection"
	"github.com/dharmasatrya/flightreservation/pkg/format"
)

// Reservation builds the ranked flight list. The context comes from the
// handed payload, then the stored search, then the catalog default. Any
// pending selection is dropped; an open panel survives if its flight is
// still listed.
func (h *Handler) Reservation(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	criterion, ok := ranking.ParseCriterion(req.SortBy)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "validation_error", models.ErrInvalidSort.Error())
	}

	// A malformed handed payload is treated like none at all.
	var handed *handoff.Payload
	if len(req.Handoff) > 0 {
		var p handoff.Payload
		if err := json.Unmarshal(req.Handoff, &p); err == nil {
			p.Flights = h.fromCatalog(p.Flights)
			handed = &p
		} else {
			h.log(c).WithError(err).Warn("ignoring malformed handed payload")
		}
	}

	payload, source := h.handoff.ResolveContext(ctx, SessionID(c), handed, h.catalog.Flights())
	policy := fare.NewPolicy(req.Promo)
	cabin := payload.Search.CabinClass
	if !cabin.Valid() {
		cabin = models.CabinEconomy
	}

	listing := filter.Apply(payload.Flights, req.Filters, criterion, cabin, policy)
	f := h.formatter(c)

	var resp models.ReservationResponse
	err := h.sessions.with(SessionID(c), func(s *session) error {
		s.listing = listing
		s.keys = make(map[string]int, len(listing))
		for i, fl := range listing {
			s.keys[selection.Key(fl, i)] = i
		}
		s.search = *payload.Search
		s.search.CabinClass = cabin
		s.promo = req.Promo
		s.state = relist(s.state, s.keys)

		resp = h.buildReservation(s, f, criterion, source)
		return nil
	})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "reservation_error", err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}

// fromCatalog swaps handed flights the catalog knows by ID for the catalog's
// own record, so fares and prices always come from the server. Flights
// without a known ID are kept as handed.
func (h *Handler) fromCatalog(flights []models.Flight) []models.Flight {
	out := make([]models.Flight, len(flights))
	for i, fl := range flights {
		if known, ok := h.catalog.Find(fl.ID); fl.ID != "" && ok {
			fl = known
		}
		out[i] = fl
	}
	return out
}

func relist(prev selection.State, keys map[string]int) selection.State {
	if prev.Panel == nil || prev.Phase == selection.Confirmed {
		return selection.State{}
	}
	if _, ok := keys[prev.Panel.Key]; !ok {
		return selection.State{}
	}
	return selection.State{Phase: selection.Expanded, Panel: prev.Panel}
}

func (h *Handler) buildReservation(s *session, f *format.Formatter, criterion ranking.Criterion, source handoff.Source) models.ReservationResponse {
	policy := fare.NewPolicy(s.promo)

	resp := models.ReservationResponse{
		SearchCriteria: models.SearchCriteria{
			Origin:      s.search.Origin,
			Destination: s.search.Destination,
			Date:        s.search.Date,
			Passengers:  s.search.Passengers,
			CabinClass:  s.search.CabinClass,
		},
		SortBy:       string(criterion),
		PromoEnabled: s.promo,
		Source:       string(source),
		Flights:      make([]models.FlightCard, 0, len(s.listing)),
	}
	if d, ok := s.search.TravelDate(); ok {
		resp.DateDisplay = f.Date(d)
	}

	for i, fl := range s.listing {
		key := selection.Key(fl, i)
		card := models.FlightCard{
			Key:       key,
			Flight:    fl,
			Economy:   summary(policy, f, fl, models.CabinEconomy),
			Business:  summary(policy, f, fl, models.CabinBusiness),
			Requested: summary(policy, f, fl, s.search.CabinClass),
		}

		if panel := s.state.Panel; panel != nil && panel.Key == key {
			cabin := panel.Cabin
			card.Expanded = &cabin
			card.FareCards = fareCards(policy, f, fl, cabin)
		}

		resp.Flights = append(resp.Flights, card)
	}

	return resp
}

func summary(policy fare.Policy, f *format.Formatter, fl models.Flight, cabin models.CabinClass) models.CabinSummary {
	s := policy.Summary(fl, cabin)
	if s.Available {
		s.Formatted = f.Money(s.Price, s.Fare.Price.Currency)
	}
	return s
}

func fareCards(policy fare.Policy, f *format.Formatter, fl models.Flight, cabin models.CabinClass) []models.FareCard {
	subs := fl.Cabin(cabin).Subcategories
	cards := make([]models.FareCard, 0, len(subs))
	for _, sub := range subs {
		price := policy.AdjustedPrice(sub)
		cards = append(cards, models.FareCard{
			Fare:       sub,
			Price:      price,
			Formatted:  f.Money(price, sub.Price.Currency),
			Selectable: policy.Selectable(sub),
		})
	}
	return cards
}

// ensureListing gives a session that never opened the reservation step the
// same list a plain page load would show.
func (h *Handler) ensureListing(ctx context.Context, id string, s *session) {
	if s.keys != nil {
		return
	}
	payload, _ := h.handoff.ResolveContext(ctx, id, nil, h.catalog.Flights())
	cabin := payload.Search.CabinClass
	if !cabin.Valid() {
		cabin = models.CabinEconomy
	}
	s.listing = ranking.Rank(payload.Flights, ranking.ByPrice, cabin, fare.NewPolicy(false))
	s.keys = make(map[string]int, len(s.listing))
	for i, fl := range s.listing {
		s.keys[selection.Key(fl, i)] = i
	}
	s.search = *payload.Search
	s.search.CabinClass = cabin
}
