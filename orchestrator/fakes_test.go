package orchestrator

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/clients"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/logging"
)

func quietLog() logrus.FieldLogger { return logging.Discard() }

type staticGate bool

func (g staticGate) Connected() bool { return bool(g) }

type checkerFunc func(ctx context.Context) bool

func (f checkerFunc) Health(ctx context.Context) bool { return f(ctx) }

func happyPayload() *clients.EmotionData {
	return &clients.EmotionData{
		Predictions:     []float64{0.1, 0.05, 0.05, 0.6, 0.1, 0.05, 0.05},
		DominantEmotion: "happy",
		Confidence:      0.6,
	}
}

// fakeCamera is a scriptable CameraBackend.
type fakeCamera struct {
	mu       sync.Mutex
	startAck string
	stopAck  string
	startErr error
	stopErr  error
	// holdStart, when set, blocks StartCamera until closed.
	holdStart chan struct{}
	// data answers each poll; n counts from 1.
	data  func(n int) (*clients.EmotionData, error)
	video func(ctx context.Context, fn func(clients.Frame) error) error

	starts, stops, polls int
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{
		startAck: "Camera started",
		stopAck:  "Camera stopped",
		data:     func(int) (*clients.EmotionData, error) { return happyPayload(), nil },
	}
}

func (f *fakeCamera) StartCamera(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.starts++
	hold := f.holdStart
	ack, err := f.startAck, f.startErr
	f.mu.Unlock()
	if hold != nil {
		<-hold
	}
	return ack, err
}

func (f *fakeCamera) StopCamera(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return f.stopAck, f.stopErr
}

func (f *fakeCamera) EmotionData(ctx context.Context) (*clients.EmotionData, error) {
	f.mu.Lock()
	f.polls++
	n, data := f.polls, f.data
	f.mu.Unlock()
	return data(n)
}

func (f *fakeCamera) VideoFeed(ctx context.Context, fn func(clients.Frame) error) error {
	f.mu.Lock()
	video := f.video
	f.mu.Unlock()
	if video == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return video(ctx, fn)
}

func (f *fakeCamera) counts() (starts, stops, polls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.polls
}

// fakeAnalysis is a scriptable AnalysisBackend.
type fakeAnalysis struct {
	mu    sync.Mutex
	calls int
	reply func(kind, text string) (*clients.Analysis, error)
}

func (f *fakeAnalysis) do(kind, text string) (*clients.Analysis, error) {
	f.mu.Lock()
	f.calls++
	reply := f.reply
	f.mu.Unlock()
	return reply(kind, text)
}

func (f *fakeAnalysis) AnalyzeText(ctx context.Context, text string) (*clients.Analysis, error) {
	return f.do("text", text)
}

func (f *fakeAnalysis) AnalyzeVoice(ctx context.Context, text string) (*clients.Analysis, error) {
	return f.do("voice", text)
}

func (f *fakeAnalysis) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
