package orchestrator

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

var barColors = map[emotion.Class]string{
	emotion.Angry:    "e53935",
	emotion.Disgust:  "7cb342",
	emotion.Fear:     "8e24aa",
	emotion.Happy:    "fdd835",
	emotion.Neutral:  "9e9e9e",
	emotion.Sad:      "1e88e5",
	emotion.Surprise: "fb8c00",
	emotion.Positive: "43a047",
	emotion.Negative: "d81b60",
}

func barStyle(c emotion.Class) chart.Style {
	col := drawing.ColorFromHex(barColors[c])
	return chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
}

// writeBarChart renders values as a PNG bar chart on a fixed 0-100 axis.
func writeBarChart(path, title string, classes []emotion.Class, values emotion.DisplayVector) error {
	bars := make([]chart.Value, len(classes))
	for i, c := range classes {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		bars[i] = chart.Value{Label: c.Title(), Value: v, Style: barStyle(c)}
	}
	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      800,
		Height:     400,
		BarWidth:   60,
		BarSpacing: 40,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Bars:       bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := bc.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}
