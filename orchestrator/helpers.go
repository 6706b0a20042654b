package orchestrator

import (
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

// ackStarted accepts the backend's start replies, including the idempotent
// "Camera already running".
func ackStarted(ack string) bool {
	a := strings.ToLower(ack)
	return strings.Contains(a, "started") || strings.Contains(a, "already running")
}

// ackStopped also covers "Camera already stopped".
func ackStopped(ack string) bool {
	return strings.Contains(strings.ToLower(ack), "stopped")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ceilSeconds is the whole-second countdown for d.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func cloneVector(d emotion.DisplayVector) emotion.DisplayVector {
	if d == nil {
		return nil
	}
	out := make(emotion.DisplayVector, len(d))
	copy(out, d)
	return out
}

func orClock(c clockwork.Clock) clockwork.Clock {
	if c == nil {
		return clockwork.NewRealClock()
	}
	return c
}

func orLogger(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
