package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

// Booking serves the success step. Without a stored booking the client is
// expected to go back to the search form.
func (h *Handler) Booking(c echo.Context) error {
	b, ok := h.handoff.LoadBooking(c.Request().Context(), SessionID(c))
	if !ok {
		return errorJSON(c, http.StatusNotFound, "no_booking", "No confirmed booking for this session.")
	}

	f := h.formatter(c)
	resp := models.BookingResponse{
		Booking:        b,
		TotalFormatted: f.Money(b.TotalPrice, b.Currency),
	}
	if d, err := models.ParseDate(b.Date); err == nil {
		resp.DateDisplay = f.Date(d)
	}
	return c.JSON(http.StatusOK, resp)
}
