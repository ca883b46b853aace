package handoff

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

const (
	lastSearchKey  = "flight:last-search:"
	lastBookingKey = "flight:last-booking:"
)

// Source says where a reservation context came from.
type Source string

const (
	SourceHanded  Source = "handed"
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
)

// Handoff is best-effort persistence over a Store. Write failures are logged
// and dropped; read failures and malformed data read as "nothing stored".
type Handoff struct {
	store  Store
	logger logrus.FieldLogger
}

func New(store Store, logger logrus.FieldLogger) *Handoff {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Handoff{store: store, logger: logger}
}

func (h *Handoff) SaveSearch(ctx context.Context, session string, p Payload) {
	h.save(ctx, lastSearchKey+session, p)
}

func (h *Handoff) LoadSearch(ctx context.Context, session string) (Payload, bool) {
	var p Payload
	if !h.load(ctx, lastSearchKey+session, &p) {
		return Payload{}, false
	}
	if !p.Valid() {
		h.logger.WithField("session", session).Warn("discarding malformed stored search")
		return Payload{}, false
	}
	return p, true
}

func (h *Handoff) SaveBooking(ctx context.Context, session string, b models.Booking) {
	h.save(ctx, lastBookingKey+session, b)
}

func (h *Handoff) LoadBooking(ctx context.Context, session string) (models.Booking, bool) {
	var b models.Booking
	if !h.load(ctx, lastBookingKey+session, &b) {
		return models.Booking{}, false
	}
	if b.Passengers < 1 || b.Fare.BrandCode == "" {
		h.logger.WithField("session", session).Warn("discarding malformed stored booking")
		return models.Booking{}, false
	}
	return b, true
}

// ResolveContext picks the reservation context: the payload handed over by
// the previous step, then the stored one, then a default built from the
// catalog. A valid handed payload is also stored for later reloads.
func (h *Handoff) ResolveContext(ctx context.Context, session string, handed *Payload, catalog []models.Flight) (Payload, Source) {
	if handed.Valid() {
		h.SaveSearch(ctx, session, *handed)
		return *handed, SourceHanded
	}
	if stored, ok := h.LoadSearch(ctx, session); ok {
		return stored, SourceStored
	}
	return DefaultPayload(catalog), SourceDefault
}

func (h *Handoff) Close() error {
	return h.store.Close()
}

func (h *Handoff) save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("handoff encode failed")
		return
	}
	if err := h.store.Save(ctx, key, data); err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("handoff save failed")
	}
}

func (h *Handoff) load(ctx context.Context, key string, v interface{}) bool {
	data, err := h.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.WithError(err).WithField("key", key).Warn("handoff load failed")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("handoff decode failed")
		return false
	}
	return true
}
