package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
)

const (
	DefaultSilenceTimeout = 2 * time.Second
	DefaultHardLimit      = 30 * time.Second
)

type SpeechOptions struct {
	SilenceTimeout time.Duration
	HardLimit      time.Duration
	Clock          clockwork.Clock
	Log            logrus.FieldLogger
}

// SpeechSession drives a recognition engine for one capture at a time.
// It stops itself after SilenceTimeout without events or HardLimit after
// Start, whichever comes first.
type SpeechSession struct {
	engine speech.Engine
	opts   SpeechOptions
	clock  clockwork.Clock
	log    logrus.FieldLogger

	mu           sync.Mutex
	state        SpeechState
	gen          uint64
	runID        string
	engineCtx    context.Context
	final        string
	interim      string
	deadline     time.Time
	silence      clockwork.Timer
	silenceEpoch uint64
	hard         clockwork.Timer
	reason       StopReason
	restarts     int
	lastErr      error
}

func NewSpeechSession(engine speech.Engine, opts SpeechOptions) *SpeechSession {
	if opts.SilenceTimeout <= 0 {
		opts.SilenceTimeout = DefaultSilenceTimeout
	}
	if opts.HardLimit <= 0 {
		opts.HardLimit = DefaultHardLimit
	}
	if engine == nil {
		engine = speech.Unsupported{}
	}
	return &SpeechSession{
		engine: engine,
		opts:   opts,
		clock:  orClock(opts.Clock),
		log:    orLogger(opts.Log).WithField("session", "speech"),
	}
}

func (s *SpeechSession) logger() logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{"run_id": s.runID, "gen": s.gen})
}

// Start begins a capture. Without an available engine it fails with an
// UnsupportedCapabilityError and the state is left untouched.
func (s *SpeechSession) Start(ctx context.Context) error {
	if !s.engine.Available() {
		return common.Unsupported(speech.UnsupportedMessage)
	}

	s.mu.Lock()
	if s.state == SpeechListening || s.state == SpeechAutoStopping {
		s.mu.Unlock()
		return fmt.Errorf("speech: already %s", s.state)
	}
	s.gen++
	gen := s.gen
	s.runID = uuid.NewString()
	s.engineCtx = ctx
	s.final, s.interim = "", ""
	s.reason = StopNone
	s.restarts = 0
	s.lastErr = nil
	s.state = SpeechListening
	s.deadline = s.clock.Now().Add(s.opts.HardLimit)
	s.hard = s.clock.AfterFunc(s.opts.HardLimit, func() { s.autoStop(gen, StopHardLimit, 0) })
	s.armSilenceLocked(gen)
	log := s.logger()
	s.mu.Unlock()

	log.Info("listening")
	if err := s.engine.Start(ctx, &speechHandler{s: s, gen: gen}); err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.failLocked(common.Engine(err))
		}
		s.mu.Unlock()
		return common.Engine(err)
	}
	return nil
}

// Stop ends a capture manually.
func (s *SpeechSession) Stop() {
	s.mu.Lock()
	if s.state != SpeechListening {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.clearTimersLocked()
	s.reason = StopManual
	s.state = SpeechStopped
	s.logger().Info("stopped")
	s.mu.Unlock()

	s.stopEngine()
}

// autoStop ends the capture started under gen. A non-zero epoch must still
// match the armed silence timer.
func (s *SpeechSession) autoStop(gen uint64, reason StopReason, epoch uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != SpeechListening || (epoch != 0 && epoch != s.silenceEpoch) {
		s.mu.Unlock()
		return
	}
	s.gen++
	stopGen := s.gen
	s.clearTimersLocked()
	s.reason = reason
	s.state = SpeechAutoStopping
	s.logger().WithField("reason", reason).Info("auto stopping")
	s.mu.Unlock()

	s.stopEngine()

	s.mu.Lock()
	if s.gen == stopGen && s.state == SpeechAutoStopping {
		s.state = SpeechStopped
	}
	s.mu.Unlock()
}

func (s *SpeechSession) stopEngine() {
	if err := s.engine.Stop(); err != nil {
		s.log.WithError(err).Warn("engine stop failed")
	}
}

func (s *SpeechSession) armSilenceLocked(gen uint64) {
	if s.silence != nil {
		s.silence.Stop()
	}
	s.silenceEpoch++
	epoch := s.silenceEpoch
	s.silence = s.clock.AfterFunc(s.opts.SilenceTimeout, func() { s.autoStop(gen, StopSilence, epoch) })
}

func (s *SpeechSession) clearTimersLocked() {
	if s.silence != nil {
		s.silence.Stop()
		s.silence = nil
	}
	s.silenceEpoch++
	if s.hard != nil {
		s.hard.Stop()
		s.hard = nil
	}
}

func (s *SpeechSession) failLocked(err error) {
	s.gen++
	s.clearTimersLocked()
	s.state = SpeechErrored
	s.lastErr = err
	s.logger().WithError(err).Error("speech session failed")
}

// Clear drops the transcript and any retained error, whatever the state.
func (s *SpeechSession) Clear() {
	s.mu.Lock()
	s.final, s.interim = "", ""
	s.lastErr = nil
	s.mu.Unlock()
}

// Dispose cancels timers, stops the engine and returns to Idle.
func (s *SpeechSession) Dispose() {
	s.mu.Lock()
	listening := s.state == SpeechListening
	s.gen++
	s.clearTimersLocked()
	s.state = SpeechIdle
	s.mu.Unlock()
	if listening {
		s.stopEngine()
	}
}

func (s *SpeechSession) State() SpeechState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript is the accumulated final text followed by the current interim.
func (s *SpeechSession) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final + s.interim
}

// Remaining is the whole seconds left on the hard limit.
func (s *SpeechSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *SpeechSession) remainingLocked() int {
	if s.state != SpeechListening {
		return ceilSeconds(s.opts.HardLimit)
	}
	return ceilSeconds(s.deadline.Sub(s.clock.Now()))
}

func (s *SpeechSession) StopReason() StopReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Restarts counts engine restarts during the current capture.
func (s *SpeechSession) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}

func (s *SpeechSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *SpeechSession) Snapshot() SpeechSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SpeechSnapshot{
		State:      s.state,
		StateName:  s.state.String(),
		RunID:      s.runID,
		Transcript: s.final + s.interim,
		Remaining:  s.remainingLocked(),
		StopReason: s.reason.String(),
		Restarts:   s.restarts,
		Error:      errText(s.lastErr),
	}
}

// speechHandler binds engine callbacks to the capture that started them.
type speechHandler struct {
	s   *SpeechSession
	gen uint64
}

func (h *speechHandler) OnResult(ev speech.Event) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.gen != s.gen || s.state != SpeechListening {
		return
	}
	interim := ""
	for _, seg := range ev.Segments {
		if seg.Final {
			s.final += seg.Text + " "
		} else {
			interim += seg.Text
		}
	}
	s.interim = interim
	s.armSilenceLocked(h.gen)
}

func (h *speechHandler) OnError(err error) {
	s := h.s
	s.mu.Lock()
	if h.gen != s.gen || s.state != SpeechListening {
		s.mu.Unlock()
		return
	}
	s.failLocked(common.Engine(err))
	s.mu.Unlock()

	s.stopEngine()
}

// OnEnd restarts the engine when it quit on its own mid-capture. Transcript
// and timers carry over.
func (h *speechHandler) OnEnd() {
	s := h.s
	s.mu.Lock()
	if h.gen != s.gen || s.state != SpeechListening {
		s.mu.Unlock()
		return
	}
	s.restarts++
	ctx := s.engineCtx
	s.logger().WithField("restarts", s.restarts).Info("engine ended, restarting")
	s.mu.Unlock()

	if err := s.engine.Start(ctx, h); err != nil {
		s.mu.Lock()
		if h.gen == s.gen && s.state == SpeechListening {
			s.failLocked(common.Engine(err))
		}
		s.mu.Unlock()
	}
}
