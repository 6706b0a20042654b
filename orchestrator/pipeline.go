package orchestrator

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/clients"
	cfg "github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/config"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
)

// Pipeline wires the monitor, the three modality sessions and the shared
// history against one backend.
type Pipeline struct {
	cfg   *cfg.Root
	http  *clients.HTTP
	clock clockwork.Clock
	log   logrus.FieldLogger

	Monitor *Monitor
	Camera  *CameraSession
	Speech  *SpeechSession
	Text    *Analyzer
	Voice   *Analyzer
	History *emotion.History
}

type Option func(*Pipeline)

func WithClock(c clockwork.Clock) Option { return func(p *Pipeline) { p.clock = c } }

func WithLogger(l logrus.FieldLogger) Option { return func(p *Pipeline) { p.log = l } }

// NewPipeline builds every component from c. A nil engine means speech
// capture is unsupported on this host.
func NewPipeline(c *cfg.Root, engine speech.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: c, http: clients.NewHTTP(c.Backend.URL, c.Backend.Timeout)}
	for _, o := range opts {
		o(p)
	}
	p.clock = orClock(p.clock)
	p.log = orLogger(p.log)

	p.History = emotion.NewHistory(emotion.HistorySize)
	p.Monitor = NewMonitor(p.http, c.Connectivity.Interval, p.clock, p.log)
	p.Camera = NewCameraSession(p.http, p.Monitor, CameraOptions{
		PollInterval: c.Camera.PollInterval,
		MaxFailures:  c.Camera.MaxPollFailures,
		Video:        c.Camera.Video,
		Clock:        p.clock,
		Log:          p.log,
	})
	p.Speech = NewSpeechSession(engine, SpeechOptions{
		SilenceTimeout: c.Speech.SilenceTimeout,
		HardLimit:      c.Speech.HardLimit,
		Clock:          p.clock,
		Log:            p.log,
	})
	p.Text = NewAnalyzer(KindText, p.http, p.History, p.clock, p.log)
	p.Voice = NewAnalyzer(KindVoice, p.http, p.History, p.clock, p.log)
	return p
}

func (p *Pipeline) Backend() *clients.HTTP { return p.http }

// Start begins connectivity monitoring.
func (p *Pipeline) Start(ctx context.Context) {
	p.log.WithField("backend", p.http.BaseURL()).Info("pipeline starting")
	p.Monitor.Start(ctx)
}

// WaitConnected blocks until the monitor reports connected or ctx ends.
func (p *Pipeline) WaitConnected(ctx context.Context) bool {
	if p.Monitor.Connected() {
		return true
	}
	changed := make(chan bool, 1)
	unsubscribe := p.Monitor.Subscribe(func(ok bool) {
		if ok {
			select {
			case changed <- true:
			default:
			}
		}
	})
	defer unsubscribe()
	if p.Monitor.Connected() {
		return true
	}
	select {
	case <-changed:
		return true
	case <-ctx.Done():
		return false
	}
}

// AnalyzeTranscript submits the current speech transcript for voice
// emotion analysis.
func (p *Pipeline) AnalyzeTranscript(ctx context.Context) (*Result, error) {
	return p.Voice.Analyze(ctx, p.Speech.Transcript())
}

// ClearVoice resets the transcript, the last voice result and its chart.
func (p *Pipeline) ClearVoice() {
	p.Speech.Clear()
	p.Voice.Reset()
}

// ClearText resets the last text result and its chart.
func (p *Pipeline) ClearText() {
	p.Text.Reset()
}

func (p *Pipeline) Snapshot() Snapshot {
	return Snapshot{
		Connected: p.Monitor.Connected(),
		Camera:    p.Camera.Snapshot(),
		Speech:    p.Speech.Snapshot(),
		Text:      p.Text.Snapshot(),
		Voice:     p.Voice.Snapshot(),
		History:   p.History.List(),
		TakenAt:   p.clock.Now(),
	}
}

// Close disposes every session and stops monitoring.
func (p *Pipeline) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	p.Camera.Dispose(ctx)
	p.Speech.Dispose()
	p.Monitor.Stop()
	p.log.Info("pipeline closed")
}
