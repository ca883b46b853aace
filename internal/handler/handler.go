package handler

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/flightreservation/internal/catalog"
	"github.com/dharmasatrya/flightreservation/internal/handoff"
	"github.com/dharmasatrya/flightreservation/internal/models"
	"github.com/dharmasatrya/flightreservation/internal/selection"
	"github.com/dharmasatrya/flightreservation/pkg/format"
)

const (
	SessionHeader = "X-Session-ID"

	headerAcceptLanguage = "Accept-Language"
)

type Config struct {
	DefaultLocale string
	// SessionTTL is how long an idle session keeps its listing and selection.
	SessionTTL time.Duration
	// MaxSessions caps the session table; the least recently used session
	// is evicted once it is full.
	MaxSessions int
}

func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		SessionTTL:    30 * time.Minute,
		MaxSessions:   10000,
	}
}

type Handler struct {
	catalog  *catalog.Catalog
	handoff  *handoff.Handoff
	sessions *sessions
	logger   logrus.FieldLogger
	config   Config
}

func New(cat *catalog.Catalog, h *handoff.Handoff, logger logrus.FieldLogger, cfg Config) *Handler {
	defaults := DefaultConfig()
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = defaults.DefaultLocale
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaults.SessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaults.MaxSessions
	}
	return &Handler{
		catalog:  cat,
		handoff:  h,
		sessions: newSessions(cfg.SessionTTL, cfg.MaxSessions),
		logger:   logger,
		config:   cfg,
	}
}

// Register mounts the API on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/flights/search", h.Search)
	api.POST("/reservation", h.Reservation)
	api.POST("/selection/toggle", h.Toggle)
	api.POST("/selection/select", h.Select)
	api.POST("/selection/cancel", h.Cancel)
	api.POST("/selection/confirm", h.Confirm)
	api.GET("/booking", h.Booking)
	e.GET("/health", HealthHandler)
}

// SessionID identifies the browser session a request belongs to. Clients
// that send no session header are told apart by address.
func SessionID(c echo.Context) string {
	if id := strings.TrimSpace(c.Request().Header.Get(SessionHeader)); id != "" {
		return id
	}
	return "ip:" + c.RealIP()
}

func (h *Handler) formatter(c echo.Context) *format.Formatter {
	pref := c.QueryParam("lang")
	if pref == "" {
		pref = c.Request().Header.Get(headerAcceptLanguage)
	}
	return format.New(pref, h.config.DefaultLocale)
}

func (h *Handler) log(c echo.Context) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"session":    SessionID(c),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}

func errorJSON(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    status,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// session is the server-side half of one user's reservation page: the list
// they are looking at, the search it came from and the selection state.
type session struct {
	mu       sync.Mutex
	lastSeen time.Time

	listing []models.Flight
	keys    map[string]int
	search  handoff.SearchContext
	promo   bool
	state   selection.State
}

func (s *session) flight(key string) (models.Flight, bool) {
	i, ok := s.keys[key]
	if !ok {
		return models.Flight{}, false
	}
	return s.listing[i], true
}

// sessions is the session table. The table lock only covers lookup and
// eviction; each session has its own lock for the work done on it.
type sessions struct {
	mu        sync.Mutex
	byKey     map[string]*session
	ttl       time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

func newSessions(ttl time.Duration, max int) *sessions {
	return &sessions{
		byKey: make(map[string]*session),
		ttl:   ttl,
		max:   max,
		now:   time.Now,
	}
}

// with runs fn while holding the lock of the session named id.
func (s *sessions) with(id string, fn func(*session) error) error {
	sess := s.acquire(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

func (s *sessions) acquire(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}

	sess, ok := s.byKey[id]
	if !ok {
		if len(s.byKey) >= s.max {
			s.sweep(now)
		}
		if len(s.byKey) >= s.max {
			s.evictOldest()
		}
		sess = &session{}
		s.byKey[id] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *sessions) sweep(now time.Time) {
	s.lastSweep = now
	for id, sess := range s.byKey {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.byKey, id)
		}
	}
}

func (s *sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.byKey {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.byKey, oldestID)
}
