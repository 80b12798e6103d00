// Package securitylog is the structured log channel for security-relevant
// events such as forged payment callbacks. It is kept apart from the request
// log so alerting can subscribe to it without parsing ordinary traffic.
package securitylog

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

const channel = "security"

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects the channel, mainly for tests.
func SetOutput(out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(out)
}

// Logger returns the shared security logger.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Event starts an entry tagged with the channel and event name.
func Event(name string) *logrus.Entry {
	return Logger().WithFields(logrus.Fields{
		"channel": channel,
		"event":   name,
	})
}
