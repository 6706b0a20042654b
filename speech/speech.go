// Package speech defines the continuous recognition engine the speech
// session drives, plus the engines that implement it.
package speech

import (
	"context"
	"errors"
)

// Segment is one piece of recognised text. Interim segments may still be
// revised by the engine; final ones are not.
type Segment struct {
	Text  string
	Final bool
}

// Event is a single recognition result batch.
type Event struct {
	Segments []Segment
}

// Handler receives engine callbacks. OnEnd fires when the engine session
// terminates for any reason, including after Stop.
type Handler interface {
	OnResult(Event)
	OnError(error)
	OnEnd()
}

// Engine is a continuous, interim-enabled recogniser. Start may be called
// again after the previous session ended.
type Engine interface {
	Available() bool
	Start(ctx context.Context, h Handler) error
	Stop() error
}

// UnsupportedMessage is reported when no engine can run on this host.
const UnsupportedMessage = "speech recognition is not supported on this system"

// Unsupported is an engine that is never available.
type Unsupported struct{}

func (Unsupported) Available() bool { return false }

func (Unsupported) Start(context.Context, Handler) error { return ErrUnavailable }

func (Unsupported) Stop() error { return nil }

// ErrUnavailable is returned by engines started without their prerequisites.
var ErrUnavailable = errors.New(UnsupportedMessage)
