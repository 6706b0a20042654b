package speech

import (
	"context"
	"sync"
)

// Fake is a scriptable engine for tests. Emit, Fail and End deliver
// callbacks synchronously to the handler of the current session.
type Fake struct {
	mu       sync.Mutex
	avail    bool
	startErr error
	h        Handler
	running  bool
	starts   int
	stops    int
}

func NewFake() *Fake { return &Fake{avail: true} }

// SetAvailable toggles Available.
func (f *Fake) SetAvailable(ok bool) {
	f.mu.Lock()
	f.avail = ok
	f.mu.Unlock()
}

// FailNextStart makes the next Start return err.
func (f *Fake) FailNextStart(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

func (f *Fake) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.avail
}

func (f *Fake) Start(_ context.Context, h Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.avail {
		return ErrUnavailable
	}
	if err := f.startErr; err != nil {
		f.startErr = nil
		return err
	}
	f.h = h
	f.running = true
	f.starts++
	return nil
}

// Stop ends the current session and fires OnEnd like a real engine.
func (f *Fake) Stop() error {
	f.mu.Lock()
	f.stops++
	h := f.end()
	f.mu.Unlock()
	if h != nil {
		h.OnEnd()
	}
	return nil
}

func (f *Fake) end() Handler {
	if !f.running {
		return nil
	}
	f.running = false
	return f.h
}

func (f *Fake) handler() Handler {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return nil
	}
	return f.h
}

// Emit delivers one event with the given segments.
func (f *Fake) Emit(segs ...Segment) {
	if h := f.handler(); h != nil {
		h.OnResult(Event{Segments: segs})
	}
}

func (f *Fake) EmitFinal(text string)   { f.Emit(Segment{Text: text, Final: true}) }
func (f *Fake) EmitInterim(text string) { f.Emit(Segment{Text: text}) }

// Fail reports an engine error.
func (f *Fake) Fail(err error) {
	if h := f.handler(); h != nil {
		h.OnError(err)
	}
}

// End simulates the engine terminating on its own.
func (f *Fake) End() {
	f.mu.Lock()
	h := f.end()
	f.mu.Unlock()
	if h != nil {
		h.OnEnd()
	}
}

func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *Fake) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}
