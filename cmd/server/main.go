package main

import (
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/flightreservation/internal/catalog"
	"github.com/dharmasatrya/flightreservation/internal/handler"
	"github.com/dharmasatrya/flightreservation/internal/handoff"
	"github.com/dharmasatrya/flightreservation/internal/ratelimit"
)

type Config struct {
	Port           string
	LogLevel       string
	CatalogPath    string
	DefaultLocale  string
	StoreBackend   string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisTTL       time.Duration
	CouchbaseConn  string
	CouchbaseBkt   string
	CouchbaseUser  string
	CouchbasePass  string
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitIdle  time.Duration
	SessionTTL     time.Duration
	MaxSessions    int
}

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	flights, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load flight catalog")
	}
	logger.WithField("flights", flights.Len()).Info("flight catalog loaded")

	store, err := newStore(cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("backend", cfg.StoreBackend).Fatal("failed to initialize handoff store")
	}
	h := handoff.New(store, logger)
	defer h.Close()

	limiter := ratelimit.NewSessionLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           cfg.RateLimitIdle,
	})
	e.Use(limiter.Middleware(handler.SessionID))

	api := handler.New(flights, h, logger, handler.Config{
		DefaultLocale: cfg.DefaultLocale,
		SessionTTL:    cfg.SessionTTL,
		MaxSessions:   cfg.MaxSessions,
	})
	api.Register(e)

	logger.WithField("port", cfg.Port).Info("starting flight reservation server")

	if err := e.Start(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}

func loadConfig() Config {
	limits := ratelimit.DefaultConfig()
	sessions := handler.DefaultConfig()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		DefaultLocale:  getEnv("DEFAULT_LOCALE", sessions.DefaultLocale),
		StoreBackend:   getEnv("STORE_BACKEND", "memory"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTTL:       getEnvDuration("REDIS_TTL", 24*time.Hour),
		CouchbaseConn:  getEnv("COUCHBASE_CONN", "couchbase://localhost"),
		CouchbaseBkt:   getEnv("COUCHBASE_BUCKET", "flight-handoff"),
		CouchbaseUser:  getEnv("COUCHBASE_USER", "Administrator"),
		CouchbasePass:  getEnv("COUCHBASE_PASSWORD", "password"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", limits.RequestsPerSecond),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", limits.BurstSize),
		RateLimitIdle:  getEnvDuration("RATE_LIMIT_IDLE_TTL", limits.IdleTTL),
		SessionTTL:     getEnvDuration("SESSION_TTL", sessions.SessionTTL),
		MaxSessions:    getEnvInt("MAX_SESSIONS", sessions.MaxSessions),
	}

	return cfg
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
				"session":    handler.SessionID(c),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func newStore(cfg Config, logger *logrus.Logger) (handoff.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		store, err := handoff.NewRedisStore(handoff.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"host": cfg.RedisHost + ":" + cfg.RedisPort,
			"ttl":  cfg.RedisTTL.String(),
		}).Info("redis handoff store enabled")
		return store, nil

	case "couchbase":
		handoff.EnableGocbLogging(logger)
		store, err := handoff.NewCouchbaseStore(handoff.CouchbaseConfig{
			ConnStr:  cfg.CouchbaseConn,
			Bucket:   cfg.CouchbaseBkt,
			Username: cfg.CouchbaseUser,
			Password: cfg.CouchbasePass,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("bucket", cfg.CouchbaseBkt).Info("couchbase handoff store enabled")
		return store, nil

	default:
		logger.Info("in-memory handoff store enabled")
		return handoff.NewMemoryStore(), nil
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
