package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/clients"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

const (
	DefaultPollInterval    = time.Second
	DefaultMaxPollFailures = 5
)

// ErrSuperseded is returned by a Start that was overtaken by Stop or Dispose.
var ErrSuperseded = errors.New("camera: start superseded by stop")

type CameraBackend interface {
	StartCamera(ctx context.Context) (string, error)
	StopCamera(ctx context.Context) (string, error)
	EmotionData(ctx context.Context) (*clients.EmotionData, error)
	VideoFeed(ctx context.Context, fn func(clients.Frame) error) error
}

type CameraOptions struct {
	PollInterval time.Duration
	MaxFailures  int
	Video        bool
	Clock        clockwork.Clock
	Log          logrus.FieldLogger
}

// CameraSession owns the backend camera and the prediction poll loop.
// Every Start and Stop bumps gen; responses captured under an older gen are
// dropped.
type CameraSession struct {
	backend CameraBackend
	gate    Gate
	opts    CameraOptions
	clock   clockwork.Clock
	log     logrus.FieldLogger

	mu        sync.Mutex
	state     CameraState
	gen       uint64
	runID     string
	cancel    context.CancelFunc
	chart     emotion.DisplayVector
	dominant  *Readout
	failures  int
	updates   int
	frames    int
	lastFrame []byte
	lastErr   error
}

func NewCameraSession(backend CameraBackend, gate Gate, opts CameraOptions) *CameraSession {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxPollFailures
	}
	return &CameraSession{
		backend: backend,
		gate:    gate,
		opts:    opts,
		clock:   orClock(opts.Clock),
		log:     orLogger(opts.Log).WithField("session", "camera"),
	}
}

func (s *CameraSession) logger() logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{"run_id": s.runID, "gen": s.gen})
}

// Start asks the backend to open the camera and begins polling. It is
// refused without a network call while the backend is disconnected.
func (s *CameraSession) Start(ctx context.Context) error {
	if !s.gate.Connected() {
		return &common.Error{Kind: common.ErrConnectivity, Msg: "backend is not connected, camera cannot start"}
	}

	s.mu.Lock()
	if s.state != CameraInactive && s.state != CameraErrored {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("camera: cannot start while %s", st)
	}
	s.gen++
	gen := s.gen
	s.runID = uuid.NewString()
	s.state = CameraStarting
	s.resetLocked()
	s.lastErr = nil
	log := s.logger()
	s.mu.Unlock()

	log.Info("starting camera")
	ack, err := s.backend.StartCamera(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		log.Debug("start reply discarded")
		return ErrSuperseded
	}
	if err == nil && !ackStarted(ack) {
		err = common.Backend(http.StatusOK, ack)
	}
	if err != nil {
		s.failLocked(err)
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = CameraActive
	ticker := s.clock.NewTicker(s.opts.PollInterval)
	go s.poll(loopCtx, ticker, gen)
	if s.opts.Video {
		go s.watchVideo(loopCtx, gen)
	}
	log.WithField("ack", ack).Info("camera active")
	return nil
}

// Stop cancels polling first, then asks the backend to release the camera.
func (s *CameraSession) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state == CameraInactive || s.state == CameraStopping {
		s.mu.Unlock()
		return nil
	}
	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.resetLocked()
	s.state = CameraStopping
	log := s.logger()
	s.mu.Unlock()

	log.Info("stopping camera")
	ack, err := s.backend.StopCamera(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil
	}
	if err == nil && !ackStopped(ack) {
		err = common.Backend(http.StatusOK, ack)
	}
	if err != nil {
		s.failLocked(err)
		return err
	}
	s.state = CameraInactive
	log.Info("camera stopped")
	return nil
}

// Dispose tears the session down to Inactive. A running backend camera is
// released on a best-effort basis.
func (s *CameraSession) Dispose(ctx context.Context) {
	s.mu.Lock()
	running := s.state == CameraStarting || s.state == CameraActive
	s.cancelLocked()
	s.gen++
	s.resetLocked()
	s.state = CameraInactive
	s.mu.Unlock()

	if running {
		if _, err := s.backend.StopCamera(ctx); err != nil {
			s.log.WithError(err).Warn("camera release on dispose failed")
		}
	}
}

func (s *CameraSession) poll(ctx context.Context, t clockwork.Ticker, gen uint64) {
	defer t.Stop()
	var inFlight atomic.Bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if !inFlight.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer inFlight.Store(false)
				data, err := s.backend.EmotionData(ctx)
				s.apply(gen, data, err)
			}()
		}
	}
}

// apply folds one poll result into the session. It reports whether the
// result was current.
func (s *CameraSession) apply(gen uint64, data *clients.EmotionData, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != CameraActive {
		return false
	}
	log := s.logger()

	switch {
	case errors.Is(err, clients.ErrNoData):
		return true
	case errors.Is(err, common.ErrValidation):
		log.WithError(err).Warn("malformed prediction skipped")
		return true
	case err != nil:
		s.failures++
		log.WithError(err).WithField("failures", s.failures).Warn("prediction poll failed")
		if s.failures >= s.opts.MaxFailures {
			s.failLocked(err)
		}
		return true
	}

	vec, verr := emotion.Vector(data.Predictions, len(emotion.FaceClasses))
	if verr != nil {
		log.WithError(verr).Warn("malformed prediction skipped")
		return true
	}
	s.failures = 0
	s.updates++
	s.chart = vec
	s.dominant = &Readout{Label: data.DominantEmotion, Confidence: round2(data.Confidence * 100)}
	return true
}

func (s *CameraSession) watchVideo(ctx context.Context, gen uint64) {
	err := s.backend.VideoFeed(ctx, func(f clients.Frame) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return ErrSuperseded
		}
		s.frames++
		s.lastFrame = f.Data
		return nil
	})
	if ctx.Err() != nil || errors.Is(err, ErrSuperseded) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != CameraActive {
		return
	}
	if err == nil {
		err = errors.New("video stream closed")
	}
	s.failLocked(fmt.Errorf("video stream: %w", err))
}

func (s *CameraSession) failLocked(err error) {
	s.cancelLocked()
	s.state = CameraErrored
	s.lastErr = err
	s.dominant = nil
	s.chart = nil
	s.logger().WithError(err).Error("camera session failed")
}

func (s *CameraSession) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *CameraSession) resetLocked() {
	s.chart = nil
	s.dominant = nil
	s.failures = 0
	s.updates = 0
	s.frames = 0
	s.lastFrame = nil
}

func (s *CameraSession) State() CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Chart is the latest redistributed prediction, or the placeholder while
// nothing current is available.
func (s *CameraSession) Chart() emotion.DisplayVector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartLocked()
}

func (s *CameraSession) chartLocked() emotion.DisplayVector {
	if s.state != CameraActive || s.chart == nil {
		return emotion.Placeholder()
	}
	return cloneVector(s.chart)
}

// Dominant returns the current readout, nil when none.
func (s *CameraSession) Dominant() *Readout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dominant == nil {
		return nil
	}
	r := *s.dominant
	return &r
}

func (s *CameraSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *CameraSession) Snapshot() CameraSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := CameraSnapshot{
		State:     s.state,
		StateName: s.state.String(),
		RunID:     s.runID,
		Chart:     s.chartLocked(),
		Updates:   s.updates,
		Frames:    s.frames,
		LastFrame: s.lastFrame,
		Error:     errText(s.lastErr),
	}
	if s.dominant != nil {
		r := *s.dominant
		snap.Dominant = &r
	}
	return snap
}
