package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/flightreservation/internal/fare"
	"github.com/dharmasatrya/flightreservation/internal/models"
	"github.com/dharmasatrya/flightreservation/internal/selection"
	"github.com/dharmasatrya/flightreservation/pkg/format"
)

var errRefused = errors.New("transition refused in current state")

func (h *Handler) Toggle(c echo.Context) error {
	var req models.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	req.Cabin = models.CabinClass(strings.ToUpper(string(req.Cabin)))
	if !req.Cabin.Valid() {
		return errorJSON(c, http.StatusBadRequest, "validation_error", models.ErrInvalidCabinClass.Error())
	}

	return h.transition(c, func(s *session) (selection.Event, error) {
		if _, ok := s.flight(req.FlightKey); !ok {
			return nil, models.ErrUnknownFlight
		}
		return selection.Toggle{Key: req.FlightKey, Cabin: req.Cabin}, nil
	})
}

func (h *Handler) Select(c echo.Context) error {
	var req models.SelectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	return h.transition(c, func(s *session) (selection.Event, error) {
		fl, ok := s.flight(req.FlightKey)
		if !ok {
			return nil, models.ErrUnknownFlight
		}
		if s.state.Panel == nil {
			return nil, errRefused
		}
		sub, ok := fare.Find(fl, s.state.Panel.Cabin, req.BrandCode)
		if !ok {
			return nil, models.ErrUnknownFare
		}
		return selection.Select{
			Key:    req.FlightKey,
			Flight: fl,
			Fare:   sub,
			Policy: fare.NewPolicy(s.promo),
		}, nil
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.transition(c, func(*session) (selection.Event, error) {
		return selection.Cancel{}, nil
	})
}

// Confirm turns the pending selection into a booking, stores it for the
// success step and resets the session's panels.
func (h *Handler) Confirm(c echo.Context) error {
	return h.transition(c, func(s *session) (selection.Event, error) {
		return selection.Confirm{Context: selection.Context{
			Passengers:  s.search.Passengers,
			Date:        s.search.Date,
			Origin:      s.search.Origin,
			Destination: s.search.Destination,
		}}, nil
	})
}

// transition applies the event built by build to the caller's session and
// writes the resulting state. A confirmed booking is stored after the
// session lock is released.
func (h *Handler) transition(c echo.Context, build func(*session) (selection.Event, error)) error {
	ctx := c.Request().Context()
	id := SessionID(c)
	f := h.formatter(c)

	var (
		resp    models.SelectionResponse
		booking *models.Booking
		status  = http.StatusOK
	)

	err := h.sessions.with(id, func(s *session) error {
		h.ensureListing(ctx, id, s)

		event, err := build(s)
		if err != nil {
			return err
		}

		next, effect := selection.Apply(s.state, event)
		if effect.Refused {
			return errRefused
		}
		s.state = next

		if b := effect.Booking; b != nil {
			booking = b
			resp = selectionView(s.state, f)
			resp.Booking = b
			resp.Formatted = f.Money(b.TotalPrice, b.Currency)
			s.state = selection.State{}
			status = http.StatusCreated
			return nil
		}

		resp = selectionView(s.state, f)
		return nil
	})

	var verr models.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorJSON(c, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, errRefused):
		return errorJSON(c, http.StatusConflict, "transition_refused", err.Error())
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "selection_error", err.Error())
	}

	if booking != nil {
		h.handoff.SaveBooking(ctx, id, *booking)
		h.log(c).WithFields(logrus.Fields{
			"brand":      booking.Fare.BrandCode,
			"cabin":      booking.Cabin,
			"passengers": booking.Passengers,
			"total":      booking.TotalPrice,
		}).Info("booking confirmed")
	}

	return c.JSON(status, resp)
}

func selectionView(s selection.State, f *format.Formatter) models.SelectionResponse {
	resp := models.SelectionResponse{State: string(s.Phase)}
	if resp.State == "" {
		resp.State = string(selection.Collapsed)
	}
	if s.Panel != nil {
		resp.Expanded = &models.PanelView{FlightKey: s.Panel.Key, Cabin: s.Panel.Cabin}
	}
	if p := s.Pending; p != nil {
		resp.Pending = &models.PendingView{
			FlightKey: p.Key,
			Cabin:     p.Cabin,
			Fare:      p.Fare,
			Price:     p.Price,
		}
		resp.Formatted = f.Money(p.Price, p.Fare.Price.Currency)
	}
	return resp
}
