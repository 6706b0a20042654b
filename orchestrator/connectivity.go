package orchestrator

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// DefaultProbeInterval is how often the backend health is checked.
const DefaultProbeInterval = 5 * time.Second

type HealthChecker interface {
	Health(ctx context.Context) bool
}

// Gate reports whether the backend is reachable.
type Gate interface {
	Connected() bool
}

// Monitor probes /health on a fixed period. It starts disconnected and only
// the latest resolved probe counts.
type Monitor struct {
	checker  HealthChecker
	interval time.Duration
	clock    clockwork.Clock
	log      logrus.FieldLogger

	connected atomic.Bool
	probing   atomic.Bool
	skipped   atomic.Int64

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	subs    []subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(bool)
}

func NewMonitor(checker HealthChecker, interval time.Duration, clock clockwork.Clock, log logrus.FieldLogger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		clock:    orClock(clock),
		log:      orLogger(log).WithField("component", "connectivity"),
	}
}

func (m *Monitor) Connected() bool { return m.connected.Load() }

// Skipped counts ticks ignored because a probe was still running.
func (m *Monitor) Skipped() int64 { return m.skipped.Load() }

// Subscribe registers fn for connectivity changes. The returned func
// removes it again.
func (m *Monitor) Subscribe(fn func(bool)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(s subscriber) bool { return s.id == id })
	}
}

func (m *Monitor) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Probe runs one health check and records the result.
func (m *Monitor) Probe(ctx context.Context) bool {
	return m.record(m.checker.Health(ctx))
}

func (m *Monitor) record(ok bool) bool {
	if prev := m.connected.Swap(ok); prev != ok {
		if ok {
			m.log.Info("backend connected")
		} else {
			m.log.Warn("backend unreachable")
		}
		m.mu.Lock()
		subs := slices.Clone(m.subs)
		m.mu.Unlock()
		for _, s := range subs {
			s.fn(ok)
		}
	}
	return ok
}

// Start probes immediately and then every interval until Stop or ctx ends.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	ticker := m.clock.NewTicker(m.interval)
	go m.loop(ctx, ticker, m.done)
}

func (m *Monitor) loop(ctx context.Context, t clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer t.Stop()
	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	if !m.probing.CompareAndSwap(false, true) {
		m.skipped.Add(1)
		m.log.Debug("probe still running, tick skipped")
		return
	}
	go func() {
		defer m.probing.Store(false)
		ok := m.checker.Health(ctx)
		if ctx.Err() != nil {
			return
		}
		m.record(ok)
	}()
}

// Stop ends the probe loop. The result of a probe cut short is dropped.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
