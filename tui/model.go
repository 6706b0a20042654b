package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
)

// RefreshInterval is how often the dashboard re-reads the pipeline.
const RefreshInterval = 250 * time.Millisecond

type tickMsg time.Time

// doneMsg reports the outcome of an action run off the update loop.
type doneMsg struct {
	action string
	info   string
	err    error
}

type mode int

const (
	modeCommand mode = iota
	modeText
)

// Model is the dashboard. All pipeline calls that may block run as commands.
type Model struct {
	ctx    context.Context
	p      *orchestrator.Pipeline
	outDir string
	keys   KeyMap
	input  textinput.Model

	mode   mode
	snap   orchestrator.Snapshot
	status string
	failed bool
	width  int
}

// New builds a dashboard over p. Exports go under outDir.
func New(ctx context.Context, p *orchestrator.Pipeline, outDir string) Model {
	in := textinput.New()
	in.Placeholder = "type something and press enter"
	in.CharLimit = 500
	in.Width = 60
	return Model{
		ctx:    ctx,
		p:      p,
		outDir: outDir,
		keys:   DefaultKeyMap(),
		input:  in,
		snap:   p.Snapshot(),
		status: "ready",
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.snap = m.p.Snapshot()
		return m, tick()

	case doneMsg:
		m.snap = m.p.Snapshot()
		if msg.err != nil {
			m.status = msg.action + ": " + common.Message(msg.err)
			m.failed = true
		} else {
			m.status = msg.info
			m.failed = false
		}

	case tea.KeyMsg:
		if m.mode == modeText {
			return m.updateText(msg)
		}
		return m.updateCommand(msg)
	}
	return m, nil
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Camera):
		return m, m.toggleCamera()
	case key.Matches(msg, m.keys.Listen):
		return m, m.toggleListen()
	case key.Matches(msg, m.keys.Analyze):
		return m, m.analyzeSpeech()
	case key.Matches(msg, m.keys.ClearVoice):
		m.p.ClearVoice()
		m.snap = m.p.Snapshot()
		m.status = "speech cleared"
		m.failed = false
	case key.Matches(msg, m.keys.TextMode):
		m.mode = modeText
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Export):
		return m, m.export()
	}
	return m, nil
}

func (m Model) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.mode = modeCommand
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		return m, m.analyzeText(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleCamera() tea.Cmd {
	p, ctx := m.p, m.ctx
	return func() tea.Msg {
		if p.Camera.State() == orchestrator.CameraActive {
			return doneMsg{action: "camera", info: "camera stopped", err: p.Camera.Stop(ctx)}
		}
		return doneMsg{action: "camera", info: "camera started", err: p.Camera.Start(ctx)}
	}
}

func (m Model) toggleListen() tea.Cmd {
	p, ctx := m.p, m.ctx
	return func() tea.Msg {
		if p.Speech.State() == orchestrator.SpeechListening {
			p.Speech.Stop()
			return doneMsg{action: "speech", info: "stopped listening"}
		}
		return doneMsg{action: "speech", info: "listening", err: p.Speech.Start(ctx)}
	}
}

func (m Model) analyzeSpeech() tea.Cmd {
	p, ctx := m.p, m.ctx
	return func() tea.Msg {
		res, err := p.AnalyzeTranscript(ctx)
		if err != nil {
			return doneMsg{action: "voice", err: err}
		}
		return doneMsg{action: "voice", info: fmt.Sprintf("voice: %s (%d%%)", res.Label.Title(), res.DisplayConfidence)}
	}
}

func (m Model) analyzeText(text string) tea.Cmd {
	p, ctx := m.p, m.ctx
	return func() tea.Msg {
		res, err := p.Text.Analyze(ctx, text)
		if err != nil {
			return doneMsg{action: "text", err: err}
		}
		return doneMsg{action: "text", info: fmt.Sprintf("text: %s (%d%%)", res.Label.Title(), res.DisplayConfidence)}
	}
}

func (m Model) export() tea.Cmd {
	p, dir := m.p, m.outDir
	return func() tea.Msg {
		path, err := p.Export(dir)
		return doneMsg{action: "export", info: "saved " + path, err: err}
	}
}

// Run shows the dashboard until the user quits or ctx ends.
func Run(ctx context.Context, p *orchestrator.Pipeline, outDir string) error {
	_, err := tea.NewProgram(New(ctx, p, outDir), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
