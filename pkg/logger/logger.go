package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

var base = logrus.New()

func init() {
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	base.SetLevel(logrus.InfoLevel)
	if os.Getenv("ENVIRONMENT") == "development" {
		base.SetLevel(logrus.DebugLevel)
	}
}

// Configure applies the level and output format chosen in config. Unknown
// levels keep the current one.
func Configure(level string, json bool) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		base.SetLevel(lvl)
	}
	if json {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
}

// SetOutput redirects all log output, mostly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

func Info(format string, v ...interface{}) {
	base.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	base.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	base.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	base.Warnf(format, v...)
}

func Fatal(format string, v ...interface{}) {
	base.Fatalf(format, v...)
}

func WithFields(fields Fields) *logrus.Entry {
	return base.WithFields(fields)
}

func LogOrderError(orderID, action string, err error) {
	base.WithFields(logrus.Fields{
		"order_id": orderID,
		"action":   action,
	}).Warnf("order workflow error: %v", err)
}

func LogPersistError(key string, err error) {
	base.WithField("key", key).Errorf("snapshot write failed: %v", err)
}
