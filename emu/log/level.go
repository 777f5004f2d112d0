package log

import (
	"io"
	"sync/atomic"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Level mirrors logrus levels, from the most to the least severe.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var disabled atomic.Bool

// Disable turns off all logging, whatever the level or the module.
func Disable() {
	disabled.Store(true)
	logrus.SetOutput(io.Discard)
}

// SetOutput sets the destination of all log entries.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}
