package handoff

import (
	"github.com/couchbase/gocb/v2"
	"github.com/sirupsen/logrus"
)

// GocbLogger forwards SDK log lines to logrus.
type GocbLogger struct {
	Logger *logrus.Logger
}

func (l *GocbLogger) Log(level gocb.LogLevel, offset int, format string, v ...interface{}) error {
	l.Logger.WithField("component", "gocb").Logf(gocbLevel(level), format, v...)
	return nil
}

func gocbLevel(level gocb.LogLevel) logrus.Level {
	switch level {
	case gocb.LogError:
		return logrus.ErrorLevel
	case gocb.LogWarn:
		return logrus.WarnLevel
	case gocb.LogInfo:
		return logrus.InfoLevel
	case gocb.LogDebug:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// EnableGocbLogging routes the SDK's global logger through l.
func EnableGocbLogging(l *logrus.Logger) {
	gocb.SetLogger(&GocbLogger{Logger: l})
}
