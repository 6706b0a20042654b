package orchestrator

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/clients"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

// ErrReset is returned when Reset ran while the request was in flight.
var ErrReset = errors.New("analysis discarded after reset")

type AnalysisBackend interface {
	AnalyzeText(ctx context.Context, text string) (*clients.Analysis, error)
	AnalyzeVoice(ctx context.Context, text string) (*clients.Analysis, error)
}

// Result is one accepted analysis.
type Result struct {
	Kind              string                `json:"kind"`
	Label             emotion.Class         `json:"label"`
	Confidence        float64               `json:"confidence"`
	DisplayConfidence int                   `json:"display_confidence"`
	Chart             emotion.DisplayVector `json:"chart"`
	Record            emotion.Record        `json:"record"`
}

// Analyzer runs one-shot queries for a single modality and owns that
// modality's chart. The history is shared with the other analyzer.
type Analyzer struct {
	kind    Kind
	backend AnalysisBackend
	history *emotion.History
	clock   clockwork.Clock
	log     logrus.FieldLogger

	mu       sync.Mutex
	gen      uint64
	inFlight int
	chart    emotion.DisplayVector
	last     *Result
	lastErr  error
}

func NewAnalyzer(kind Kind, backend AnalysisBackend, history *emotion.History, clock clockwork.Clock, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		kind:    kind,
		backend: backend,
		history: history,
		clock:   orClock(clock),
		log:     orLogger(log).WithField("analyzer", kind.String()),
	}
}

// Analyze sends input to the modality's endpoint. Blank input is rejected
// before any request. Concurrent calls all apply, in arrival order.
func (a *Analyzer) Analyze(ctx context.Context, input string) (*Result, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		err := common.Validation("please enter some %s to analyze", a.subject())
		a.setErr(err)
		return nil, err
	}

	a.mu.Lock()
	gen := a.gen
	a.inFlight++
	a.mu.Unlock()

	started := a.clock.Now()
	var res *clients.Analysis
	var err error
	if a.kind == KindVoice {
		res, err = a.backend.AnalyzeVoice(ctx, text)
	} else {
		res, err = a.backend.AnalyzeText(ctx, text)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight--
	if gen != a.gen {
		return nil, ErrReset
	}
	if err != nil {
		a.lastErr = err
		a.log.WithError(err).Warn("analysis failed")
		return nil, err
	}

	out, err := a.build(text, res)
	if err != nil {
		a.lastErr = err
		a.log.WithError(err).Warn("analysis rejected")
		return nil, err
	}
	a.history.Record(out.Record)
	a.chart = out.Chart
	a.last = out
	a.lastErr = nil
	a.log.WithFields(logrus.Fields{
		"label":      out.Label,
		"confidence": out.DisplayConfidence,
		"took":       a.clock.Since(started).Round(time.Millisecond),
	}).Info("analysis done")
	return out, nil
}

func (a *Analyzer) build(text string, res *clients.Analysis) (*Result, error) {
	classes := a.kind.Classes()
	label, ok := emotion.Parse(classes, res.Label)
	if !ok {
		return nil, common.Validation("unexpected %s label %q", a.kind, res.Label)
	}
	disp := emotion.DisplayConfidence(res.Confidence)
	chart, err := emotion.Scalar(classes, label, a.dominantValue(res.Confidence))
	if err != nil {
		return nil, err
	}
	now := a.clock.Now()
	return &Result{
		Kind:              a.kind.String(),
		Label:             label,
		Confidence:        res.Confidence,
		DisplayConfidence: disp,
		Chart:             chart,
		Record: emotion.Record{
			ID:                a.history.NextID(now),
			SourceText:        text,
			Label:             label,
			DisplayConfidence: disp,
			CapturedAt:        now,
		},
	}, nil
}

// dominantValue is the chart share of the winning class. Text charts use
// the calibrated display confidence; voice charts the raw percentage.
func (a *Analyzer) dominantValue(conf float64) float64 {
	if a.kind == KindVoice {
		return math.Round(conf * 100)
	}
	return float64(emotion.DisplayConfidence(conf))
}

func (a *Analyzer) subject() string {
	if a.kind == KindVoice {
		return "speech"
	}
	return "text"
}

func (a *Analyzer) setErr(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// Reset zeroes the chart and result. Replies still in flight are dropped.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	a.gen++
	a.chart = nil
	a.last = nil
	a.lastErr = nil
	a.mu.Unlock()
}

// Chart is the last result's distribution, or zeros.
func (a *Analyzer) Chart() emotion.DisplayVector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chartLocked()
}

func (a *Analyzer) chartLocked() emotion.DisplayVector {
	if a.chart == nil {
		return emotion.Zero(len(a.kind.Classes()))
	}
	return cloneVector(a.chart)
}

func (a *Analyzer) Last() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return nil
	}
	r := *a.last
	return &r
}

func (a *Analyzer) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Analyzer) Snapshot() AnalyzerSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := AnalyzerSnapshot{
		Kind:  a.kind.String(),
		Chart: a.chartLocked(),
		Busy:  a.inFlight > 0,
		Error: errText(a.lastErr),
	}
	if a.last != nil {
		r := *a.last
		snap.Last = &r
	}
	return snap
}
