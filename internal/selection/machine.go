// Package selection tracks the fare panel a user has open and the fare
// awaiting confirmation. Transitions are pure: each takes a State and an
// Event and returns the next State plus an Effect, so the HTTP layer only
// stores the value.
package selection

import (
	"fmt"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/models"
)

type Phase string

const (
	Collapsed           Phase = "collapsed"
	Expanded            Phase = "expanded"
	PendingConfirmation Phase = "pending_confirmation"
	Confirmed           Phase = "confirmed"
)

type Panel struct {
	Key   string
	Cabin models.CabinClass
}

// Selection is a fare the user picked but has not confirmed yet. Price is
// the per-passenger adjusted price at the time of picking.
type Selection struct {
	Key          string
	Flight       models.Flight
	Fare         models.FareSubcategory
	Cabin        models.CabinClass
	Price        float64
	PromoApplied bool
}

// State is a value; the zero State is Collapsed. Panel stays set while a
// selection is pending so that cancelling restores it.
type State struct {
	Phase   Phase
	Panel   *Panel
	Pending *Selection
}

func (s State) phase() Phase {
	if s.Phase == "" {
		return Collapsed
	}
	return s.Phase
}

// Context carries the search details a confirmed booking is packaged with.
type Context struct {
	Passengers  int
	Date        string
	Origin      string
	Destination string
}

// Effect is what a transition asks the caller to do.
type Effect struct {
	Refused bool
	Booking *models.Booking
}

type Event interface {
	apply(State) (State, Effect)
}

type Toggle struct {
	Key   string
	Cabin models.CabinClass
}

type Select struct {
	Key    string
	Flight models.Flight
	Fare   models.FareSubcategory
	Policy fare.Policy
}

type Cancel struct{}

type Confirm struct {
	Context Context
}

// Apply runs one transition.
func Apply(s State, e Event) (State, Effect) {
	return e.apply(s)
}

// Toggling the open panel closes it; any other panel replaces it. Panels
// cannot move while a selection is pending or after confirmation.
func (e Toggle) apply(s State) (State, Effect) {
	switch s.phase() {
	case PendingConfirmation, Confirmed:
		return s, Effect{Refused: true}
	}
	if s.Panel != nil && s.Panel.Key == e.Key && s.Panel.Cabin == e.Cabin {
		return State{Phase: Collapsed}, Effect{}
	}
	return State{Phase: Expanded, Panel: &Panel{Key: e.Key, Cabin: e.Cabin}}, Effect{}
}

// Picking a fare requires its panel to be open and the fare to be
// selectable under the policy.
func (e Select) apply(s State) (State, Effect) {
	if s.phase() != Expanded || s.Panel == nil || s.Panel.Key != e.Key {
		return s, Effect{Refused: true}
	}
	if !e.Policy.Selectable(e.Fare) {
		return s, Effect{Refused: true}
	}

	next := s
	next.Phase = PendingConfirmation
	next.Pending = &Selection{
		Key:          e.Key,
		Flight:       e.Flight,
		Fare:         e.Fare,
		Cabin:        s.Panel.Cabin,
		Price:        e.Policy.AdjustedPrice(e.Fare),
		PromoApplied: e.Policy.PromoEnabled,
	}
	return next, Effect{}
}

func (Cancel) apply(s State) (State, Effect) {
	if s.phase() != PendingConfirmation {
		return s, Effect{Refused: true}
	}
	if s.Panel == nil {
		return State{Phase: Collapsed}, Effect{}
	}
	return State{Phase: Expanded, Panel: s.Panel}, Effect{}
}

func (e Confirm) apply(s State) (State, Effect) {
	if s.phase() != PendingConfirmation || s.Pending == nil {
		return s, Effect{Refused: true}
	}

	passengers := e.Context.Passengers
	if passengers < 1 {
		passengers = 1
	}

	sel := s.Pending
	booking := &models.Booking{
		Flight:       sel.Flight,
		Fare:         sel.Fare,
		Cabin:        sel.Cabin,
		Passengers:   passengers,
		TotalPrice:   fare.NewPolicy(sel.PromoApplied).Total(sel.Fare, passengers),
		Currency:     sel.Fare.Price.Currency,
		Date:         e.Context.Date,
		Origin:       e.Context.Origin,
		Destination:  e.Context.Destination,
		PromoApplied: sel.PromoApplied,
	}
	return State{Phase: Confirmed}, Effect{Booking: booking}
}

// Key identifies a flight card. Catalog-assigned IDs are preferred; the route
// key is only unique while the list order is stable.
func Key(f models.Flight, index int) string {
	if f.ID != "" {
		return f.ID
	}
	return RouteKey(f, index)
}

func RouteKey(f models.Flight, index int) string {
	return fmt.Sprintf("%s-%s-%s-%d",
		f.OriginAirport.Code,
		f.DestinationAirport.Code,
		f.DepartureDateTimeDisplay,
		index,
	)
}
