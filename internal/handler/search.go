package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/flightreservation/internal/handoff"
	"github.com/dharmasatrya/flightreservation/internal/models"
	"github.com/dharmasatrya/flightreservation/internal/search"
)

// Search resolves the search form. Expected failures come back as 422 with
// the failure code in "error"; a success is persisted for the reservation
// step before it is returned.
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if err := req.Normalize(); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	switch res := search.Resolve(req.Query(), h.catalog.Flights()).(type) {
	case *search.Failure:
		h.log(c).WithField("reason", res.Code).Info("search rejected")
		return errorJSON(c, http.StatusUnprocessableEntity, string(res.Code), res.Message)

	case *search.Success:
		payload := handoff.NewPayload(
			res.Flights,
			strings.TrimSpace(req.Origin),
			strings.TrimSpace(req.Destination),
			res.Passengers,
			res.CabinClass,
			res.Date,
		)
		h.handoff.SaveSearch(ctx, SessionID(c), payload)

		h.log(c).WithFields(logrus.Fields{
			"origin":      payload.Search.Origin,
			"destination": payload.Search.Destination,
			"results":     len(res.Flights),
		}).Info("search matched")

		return c.JSON(http.StatusOK, models.SearchResponse{
			Variant: res.Variant(),
			SearchCriteria: models.SearchCriteria{
				Origin:      payload.Search.Origin,
				Destination: payload.Search.Destination,
				Date:        payload.Search.Date,
				Passengers:  res.Passengers,
				CabinClass:  res.CabinClass,
			},
			Flight:    res.Flight,
			Fare:      res.Fare,
			FarePrice: h.formatter(c).Money(res.Fare.Price.Amount, res.Fare.Price.Currency),
			Flights:   res.Flights,
		})
	}

	return errorJSON(c, http.StatusInternalServerError, "search_error", "unexpected search result")
}
