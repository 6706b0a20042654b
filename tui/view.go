package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m Model) View() string {
	s := m.snap
	conn := badStyle.Render("● disconnected")
	if s.Connected {
		conn = okStyle.Render("● connected")
	}
	header := titleStyle.Render("EmotionSense") + "  " + conn

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.cameraPanel(), m.voicePanel())
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, m.textPanel(), m.historyPanel())

	status := dimStyle.Render(m.status)
	if m.failed {
		status = badStyle.Render(m.status)
	}
	return strings.Join([]string{header, top, bottom, status, m.helpLine()}, "\n")
}

func badge(name string, errored bool) string {
	if errored {
		return badStyle.Render("[" + name + "]")
	}
	return dimStyle.Render("[" + name + "]")
}

func (m Model) cameraPanel() string {
	c := m.snap.Camera
	lines := []string{headingStyle.Render("Face") + " " + badge(c.StateName, c.State == orchestrator.CameraErrored)}
	if c.Dominant != nil {
		lines = append(lines, fmt.Sprintf("Dominant: %s %.2f%%", emotion.Class(c.Dominant.Label).Title(), c.Dominant.Confidence))
	} else {
		lines = append(lines, dimStyle.Render("no live prediction"))
	}
	if c.Frames > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("frames: %d", c.Frames)))
	}
	lines = append(lines, Bars(emotion.FaceClasses, c.Chart, DefaultBarWidth))
	if c.Error != "" {
		lines = append(lines, badStyle.Render(c.Error))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) voicePanel() string {
	sp, v := m.snap.Speech, m.snap.Voice
	head := headingStyle.Render("Voice") + " " + badge(sp.StateName, sp.State == orchestrator.SpeechErrored)
	if sp.State == orchestrator.SpeechListening {
		head += " " + okStyle.Render(fmt.Sprintf("%ds", sp.Remaining))
	} else if sp.StopReason != "" {
		head += " " + dimStyle.Render("("+sp.StopReason+")")
	}
	transcript := sp.Transcript
	if transcript == "" {
		transcript = dimStyle.Render("press v and speak")
	}
	lines := []string{head, lipgloss.NewStyle().Width(48).Render(transcript)}
	if v.Last != nil {
		lines = append(lines, fmt.Sprintf("Result: %s %d%%", v.Last.Label.Title(), v.Last.DisplayConfidence))
	}
	lines = append(lines, Bars(emotion.FaceClasses, v.Chart, DefaultBarWidth))
	for _, e := range []string{sp.Error, v.Error} {
		if e != "" {
			lines = append(lines, badStyle.Render(e))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) textPanel() string {
	t := m.snap.Text
	lines := []string{headingStyle.Render("Text")}
	if m.mode == modeText {
		lines = append(lines, m.input.View())
	} else {
		lines = append(lines, dimStyle.Render("press t to type"))
	}
	if t.Busy {
		lines = append(lines, dimStyle.Render("analyzing..."))
	}
	if t.Last != nil {
		lines = append(lines, fmt.Sprintf("Result: %s %d%%", t.Last.Label.Title(), t.Last.DisplayConfidence))
	}
	lines = append(lines, Bars(emotion.TextClasses, t.Chart, DefaultBarWidth))
	if t.Error != "" {
		lines = append(lines, badStyle.Render(t.Error))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) historyPanel() string {
	lines := []string{headingStyle.Render("History")}
	if len(m.snap.History) == 0 {
		lines = append(lines, dimStyle.Render("no analyses yet"))
	}
	for _, r := range m.snap.History {
		lines = append(lines, fmt.Sprintf("%s  %-9s %3d%%  %s",
			r.CapturedAt.Format("15:04:05"), r.Label.Title(), r.DisplayConfidence, truncate(r.SourceText, 32)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to at most limit runes, ending in "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func (m Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp(m.mode == modeText) {
		h := b.Help()
		parts = append(parts, h.Key+" "+dimStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  •  ")
}
