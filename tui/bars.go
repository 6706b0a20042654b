// Package tui renders the pipeline as a terminal dashboard.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

const DefaultBarWidth = 30

var classColors = map[emotion.Class]string{
	emotion.Angry:    "196",
	emotion.Disgust:  "64",
	emotion.Fear:     "99",
	emotion.Happy:    "220",
	emotion.Neutral:  "250",
	emotion.Sad:      "33",
	emotion.Surprise: "208",
	emotion.Positive: "42",
	emotion.Negative: "160",
}

var (
	labelStyle = lipgloss.NewStyle().Width(9)
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Bars draws one horizontal bar per class, scaled so 100 fills width cells.
// Missing values render as empty bars.
func Bars(classes []emotion.Class, values emotion.DisplayVector, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	lines := make([]string, 0, len(classes))
	for i, c := range classes {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		filled := int(math.Round(math.Max(0, math.Min(v, 100)) / 100 * float64(width)))
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(classColors[c])).Render(strings.Repeat("█", filled)) +
			trackStyle.Render(strings.Repeat("░", width-filled))
		lines = append(lines, fmt.Sprintf("%s %s %5.1f%%", labelStyle.Render(c.Title()), bar, v))
	}
	return strings.Join(lines, "\n")
}
