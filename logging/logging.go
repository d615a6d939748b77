// Package logging is the engine's structured-logging facade. It follows the
// teacher's logiface shape (a small set of leveled event constructors that
// accept typed fields) bound directly to zerolog as the concrete backend,
// the same way the teacher's logiface-zerolog adapter binds logiface's
// generic Event interface to a zerolog.Event.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the vocabulary the simulation kernel
// needs: component-tagged, field-based records, never free-text
// interpolation.
type Logger struct {
	zl zerolog.Logger
}

// New constructs a Logger writing to w (os.Stderr if nil) at the given
// minimum level.
func New(w io.Writer, level zerolog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return Logger{zl: zl}
}

// Nop returns a Logger that discards everything, used as the zero-value
// default for components constructed without an explicit logger.
func Nop() Logger { return Logger{zl: zerolog.Nop()} }

// With returns a Logger tagged with an additional component field, the way
// the driver tags every subsystem logger it hands out.
func (l Logger) With(component string) Logger {
	return Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Event is a single in-progress structured log record.
type Event struct {
	ze *zerolog.Event
}

func (l Logger) Debug() Event { return Event{ze: l.zl.Debug()} }
func (l Logger) Info() Event  { return Event{ze: l.zl.Info()} }
func (l Logger) Warn() Event  { return Event{ze: l.zl.Warn()} }
func (l Logger) Error() Event { return Event{ze: l.zl.Error()} }

// Str, Int, Float64, Err, Uint32 append typed fields, deferring to
// zerolog.Event's own chainable builder.
func (e Event) Str(key, val string) Event {
	if e.ze == nil {
		return e
	}
	e.ze = e.ze.Str(key, val)
	return e
}

func (e Event) Int(key string, val int) Event {
	if e.ze == nil {
		return e
	}
	e.ze = e.ze.Int(key, val)
	return e
}

func (e Event) Float64(key string, val float64) Event {
	if e.ze == nil {
		return e
	}
	e.ze = e.ze.Float64(key, val)
	return e
}

func (e Event) Uint32(key string, val uint32) Event {
	if e.ze == nil {
		return e
	}
	e.ze = e.ze.Uint32(key, val)
	return e
}

func (e Event) Err(err error) Event {
	if e.ze == nil {
		return e
	}
	e.ze = e.ze.Err(err)
	return e
}

// Msg finalizes and emits the event.
func (e Event) Msg(msg string) {
	if e.ze == nil {
		return
	}
	e.ze.Msg(msg)
}
