package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/config"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
)

func TestBars(t *testing.T) {
	out := Bars(emotion.TextClasses, emotion.DisplayVector{75, 12.5, 12.5}, 20)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Positive")
	assert.Contains(t, lines[0], "75.0%")
	assert.Contains(t, lines[0], strings.Repeat("█", 15))
	assert.Contains(t, lines[1], "12.5%")
}

func TestBarsMissingValues(t *testing.T) {
	out := Bars(emotion.FaceClasses, nil, 0)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, len(emotion.FaceClasses))
	for _, l := range lines {
		assert.Contains(t, l, "0.0%")
		assert.NotContains(t, l, "█")
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 32))

	long := strings.Repeat("é", 40)
	got := truncate(long, 32)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 32, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 29)+"...", got)
}

func newTestModel(t *testing.T) (Model, *orchestrator.Pipeline, *speech.Fake) {
	t.Helper()
	c := &config.Root{}
	c.Backend.URL = "http://127.0.0.1:1"
	c.Backend.Timeout = 200 * time.Millisecond
	eng := speech.NewFake()
	log := logrus.New()
	log.SetOutput(io.Discard)
	p := orchestrator.NewPipeline(c, eng, orchestrator.WithLogger(log))
	t.Cleanup(p.Close)
	return New(context.Background(), p, t.TempDir()), p, eng
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTextModeRoundTrip(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(m, "t")
	assert.Equal(t, modeText, m.mode)

	m, _ = press(m, "h")
	m, _ = press(m, "q")
	assert.Equal(t, "hq", m.input.Value(), "keys are typed, not commands")

	m, _ = press(m, "esc")
	assert.Equal(t, modeCommand, m.mode)
}

func TestSubmitBlankTextShowsError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(m, "t")
	m, cmd := press(m, "enter")
	m = run(t, m, cmd)
	assert.True(t, m.failed)
	assert.Equal(t, "text: please enter some text to analyze", m.status)
}

func TestCameraRefusedWhileDisconnected(t *testing.T) {
	m, p, _ := newTestModel(t)
	m, cmd := press(m, "c")
	m = run(t, m, cmd)
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "not connected")
	assert.Equal(t, orchestrator.CameraInactive, p.Camera.State())
}

func TestListenToggle(t *testing.T) {
	m, p, eng := newTestModel(t)
	m, cmd := press(m, "v")
	m = run(t, m, cmd)
	assert.Equal(t, orchestrator.SpeechListening, p.Speech.State())
	assert.Equal(t, "listening", m.status)

	eng.EmitFinal("hello there")
	m, cmd = press(m, "v")
	m = run(t, m, cmd)
	assert.Equal(t, orchestrator.SpeechStopped, p.Speech.State())
	assert.Equal(t, "hello there ", m.snap.Speech.Transcript)

	m, _ = press(m, "x")
	assert.Empty(t, m.snap.Speech.Transcript)
	assert.Equal(t, "speech cleared", m.status)
}

func TestTickRefreshesSnapshot(t *testing.T) {
	m, p, eng := newTestModel(t)
	require.NoError(t, p.Speech.Start(context.Background()))
	eng.EmitInterim("live")

	next, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, "live", next.(Model).snap.Speech.Transcript)
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "disconnected")
	assert.Contains(t, out, "Surprise")
	assert.Contains(t, out, "Negative")
	assert.Contains(t, out, "no analyses yet")
	assert.Contains(t, out, "quit")
}
