package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/dharmasatrya/flightreservation/internal/catalog"
	"github.com/dharmasatrya/flightreservation/internal/handoff"
	"github.com/dharmasatrya/flightreservation/internal/models"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	logger, _ := test.NewNullLogger()
	h := New(cat, handoff.New(handoff.NewMemoryStore(), logger), logger, Config{})

	e := echo.New()
	h.Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, session, body string, out interface{}) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestSearchFailures(t *testing.T) {
	e := newServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing route", `{"origin":" ","destination":"antalya","date":"2026-11-03"}`, http.StatusUnprocessableEntity, "MISSING_ROUTE"},
		{"missing date", `{"origin":"istanbul","destination":"antalya"}`, http.StatusUnprocessableEntity, "MISSING_DATE"},
		{"no route", `{"origin":"istanbul","destination":"tokyo","date":"2026-11-03"}`, http.StatusUnprocessableEntity, "NO_ROUTE"},
		{"no cabin", `{"origin":"istanbul","destination":"izmir","date":"2026-11-03","cabin_class":"ECONOMY"}`, http.StatusUnprocessableEntity, "NO_CABIN"},
		{"bad cabin", `{"origin":"istanbul","destination":"antalya","date":"2026-11-03","cabin_class":"FIRST"}`, http.StatusBadRequest, "validation_error"},
		{"bad date", `{"origin":"istanbul","destination":"antalya","date":"next tuesday"}`, http.StatusBadRequest, "validation_error"},
		{"bad json", `{"origin":`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp models.ErrorResponse
			code := do(t, e, http.MethodPost, "/api/v1/flights/search", "s", tt.body, &resp)
			if code != tt.wantStatus || resp.Error != tt.wantError {
				t.Errorf("got %d %q, want %d %q", code, resp.Error, tt.wantStatus, tt.wantError)
			}
			if resp.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestBookingFlow(t *testing.T) {
	e := newServer(t)
	const session = "flow"

	var found models.SearchResponse
	code := do(t, e, http.MethodPost, "/api/v1/flights/search", session,
		`{"origin":"istanbul","destination":"antalya","date":"2026-11-03","passengers":2,"cabin_class":"economy"}`, &found)
	if code != http.StatusOK {
		t.Fatalf("search status %d", code)
	}
	if len(found.Flights) != 3 || found.Fare.BrandCode != models.BrandEcoFly || found.Variant != "success" {
		t.Fatalf("search = %d flights, fare %s", len(found.Flights), found.Fare.BrandCode)
	}
	if found.SearchCriteria.Date != "2026-11-03T00:00:00Z" {
		t.Errorf("date = %q", found.SearchCriteria.Date)
	}

	var listing models.ReservationResponse
	if code := do(t, e, http.MethodPost, "/api/v1/reservation", session, `{"sort_by":"price","promo":true}`, &listing); code != http.StatusOK {
		t.Fatalf("reservation status %d", code)
	}
	if listing.Source != string(handoff.SourceStored) || len(listing.Flights) != 3 {
		t.Fatalf("reservation source %s with %d flights", listing.Source, len(listing.Flights))
	}
	wantDeps := []string{"13:15", "07:30", "18:40"}
	for i, card := range listing.Flights {
		if card.Flight.DepartureDateTimeDisplay != wantDeps[i] {
			t.Errorf("card %d departs %s, want %s", i, card.Flight.DepartureDateTimeDisplay, wantDeps[i])
		}
	}
	first := listing.Flights[0]
	if first.Requested.Price != 645 || first.Business.Available {
		t.Errorf("first card summaries: %+v / %+v", first.Requested, first.Business)
	}

	toggle := `{"flight_key":"` + first.Key + `","cabin":"ECONOMY"}`
	var sel models.SelectionResponse
	if code := do(t, e, http.MethodPost, "/api/v1/selection/toggle", session, toggle, &sel); code != http.StatusOK || sel.State != "expanded" {
		t.Fatalf("toggle: %d %+v", code, sel)
	}

	if code := do(t, e, http.MethodPost, "/api/v1/reservation", session, `{"sort_by":"price","promo":true}`, &listing); code != http.StatusOK {
		t.Fatalf("reservation reload status %d", code)
	}
	cards := listing.Flights[0].FareCards
	if len(cards) != 3 || !cards[0].Selectable || cards[1].Selectable || cards[2].Selectable {
		t.Errorf("fare cards under promo: %+v", cards)
	}

	var refused models.ErrorResponse
	if code := do(t, e, http.MethodPost, "/api/v1/selection/select", session, `{"flight_key":"`+first.Key+`","brand_code":"extraFly"}`, &refused); code != http.StatusConflict {
		t.Errorf("promo select of extraFly = %d", code)
	}

	if code := do(t, e, http.MethodPost, "/api/v1/selection/select", session, `{"flight_key":"`+first.Key+`","brand_code":"ecoFly"}`, &sel); code != http.StatusOK {
		t.Fatalf("select status %d", code)
	}
	if sel.State != "pending_confirmation" || sel.Pending == nil || sel.Pending.Price != 645 {
		t.Fatalf("pending = %+v", sel)
	}

	sel = models.SelectionResponse{}
	if code := do(t, e, http.MethodPost, "/api/v1/selection/confirm", session, "", &sel); code != http.StatusCreated {
		t.Fatalf("confirm status %d", code)
	}
	if sel.Booking == nil || sel.Booking.TotalPrice != 1290 || sel.Booking.Passengers != 2 || !sel.Booking.PromoApplied {
		t.Fatalf("booking = %+v", sel.Booking)
	}

	var booked models.BookingResponse
	if code := do(t, e, http.MethodGet, "/api/v1/booking?lang=tr", session, "", &booked); code != http.StatusOK {
		t.Fatalf("booking status %d", code)
	}
	if booked.Booking.Origin != "istanbul" || booked.DateDisplay != "03.11.2026" {
		t.Errorf("booking view = %+v", booked)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/booking", nil)
	req.Header.Set(SessionHeader, session)
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	booked = models.BookingResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &booked); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("booking via Accept-Language: %d %s", rec.Code, rec.Body.String())
	}
	if booked.DateDisplay != "03.11.2026" || !strings.HasSuffix(booked.TotalFormatted, " TRY") {
		t.Errorf("Accept-Language tr view = %+v", booked)
	}

	if code := do(t, e, http.MethodGet, "/api/v1/booking", "someone-else", "", nil); code != http.StatusNotFound {
		t.Errorf("other session booking = %d, want 404", code)
	}
}

func TestCancelKeepsPanel(t *testing.T) {
	e := newServer(t)
	const session = "cancel"

	var listing models.ReservationResponse
	do(t, e, http.MethodPost, "/api/v1/reservation", session, `{"sort_by":"time"}`, &listing)
	key := listing.Flights[0].Key

	do(t, e, http.MethodPost, "/api/v1/selection/toggle", session, `{"flight_key":"`+key+`","cabin":"BUSINESS"}`, nil)
	if code := do(t, e, http.MethodPost, "/api/v1/selection/select", session, `{"flight_key":"`+key+`","brand_code":"ecoFly"}`, nil); code != http.StatusOK {
		t.Fatalf("select status %d", code)
	}

	var sel models.SelectionResponse
	if code := do(t, e, http.MethodPost, "/api/v1/selection/cancel", session, "", &sel); code != http.StatusOK {
		t.Fatalf("cancel status %d", code)
	}
	if sel.State != "expanded" || sel.Pending != nil || sel.Expanded.Cabin != models.CabinBusiness {
		t.Errorf("after cancel = %+v", sel)
	}

	if code := do(t, e, http.MethodPost, "/api/v1/selection/confirm", session, "", nil); code != http.StatusConflict {
		t.Errorf("confirm after cancel = %d, want 409", code)
	}
	if code := do(t, e, http.MethodPost, "/api/v1/selection/toggle", session, `{"flight_key":"nope","cabin":"ECONOMY"}`, nil); code != http.StatusBadRequest {
		t.Errorf("unknown flight toggle = %d, want 400", code)
	}
}

func TestReservationSources(t *testing.T) {
	e := newServer(t)
	cat, _ := catalog.Default()

	var listing models.ReservationResponse
	if code := do(t, e, http.MethodPost, "/api/v1/reservation", "fresh", "", &listing); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if listing.Source != string(handoff.SourceDefault) || len(listing.Flights) != cat.Len() {
		t.Errorf("default listing: source %s, %d flights", listing.Source, len(listing.Flights))
	}
	if listing.SearchCriteria.Passengers != 1 || listing.SearchCriteria.CabinClass != models.CabinEconomy || listing.DateDisplay != "" {
		t.Errorf("default criteria = %+v", listing.SearchCriteria)
	}

	handed := handoff.DefaultPayload(cat.Flights()[:1])
	handed.Search.Passengers = 3
	raw, _ := json.Marshal(map[string]interface{}{"handoff": handed, "sort_by": "time"})
	if code := do(t, e, http.MethodPost, "/api/v1/reservation", "handed", string(raw), &listing); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if listing.Source != string(handoff.SourceHanded) || len(listing.Flights) != 1 || listing.SearchCriteria.Passengers != 3 {
		t.Errorf("handed listing = %s %d %+v", listing.Source, len(listing.Flights), listing.SearchCriteria)
	}

	tampered := handoff.DefaultPayload(cat.Flights()[:1])
	tampered.Flights[0].FareCategories.Economy.Subcategories[0].Price.Amount = 1
	raw, _ = json.Marshal(map[string]interface{}{"handoff": tampered})
	if code := do(t, e, http.MethodPost, "/api/v1/reservation", "tampered", string(raw), &listing); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if got := listing.Flights[0].Requested.Price; got != 1450 {
		t.Errorf("handed catalog flight priced %v, want catalog price 1450", got)
	}

	if code := do(t, e, http.MethodPost, "/api/v1/reservation", "handed", "", &listing); code != http.StatusOK || listing.Source != string(handoff.SourceStored) {
		t.Errorf("reload after handoff: %d %s", code, listing.Source)
	}

	if code := do(t, e, http.MethodPost, "/api/v1/reservation", "x", `{"sort_by":"duration"}`, nil); code != http.StatusBadRequest {
		t.Errorf("bad sort = %d", code)
	}
}

func TestHealth(t *testing.T) {
	e := newServer(t)
	var body map[string]string
	if code := do(t, e, http.MethodGet, "/health", "", "", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", code, body)
	}
}
