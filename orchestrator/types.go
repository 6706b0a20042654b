package orchestrator

import (
	"time"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

type CameraState int

const (
	CameraInactive CameraState = iota
	CameraStarting
	CameraActive
	CameraStopping
	CameraErrored
)

func (s CameraState) String() string {
	switch s {
	case CameraInactive:
		return "inactive"
	case CameraStarting:
		return "starting"
	case CameraActive:
		return "active"
	case CameraStopping:
		return "stopping"
	case CameraErrored:
		return "errored"
	}
	return "unknown"
}

type SpeechState int

const (
	SpeechIdle SpeechState = iota
	SpeechListening
	SpeechAutoStopping
	SpeechStopped
	SpeechErrored
)

func (s SpeechState) String() string {
	switch s {
	case SpeechIdle:
		return "idle"
	case SpeechListening:
		return "listening"
	case SpeechAutoStopping:
		return "auto-stopping"
	case SpeechStopped:
		return "stopped"
	case SpeechErrored:
		return "errored"
	}
	return "unknown"
}

// StopReason records why the last speech capture ended.
type StopReason int

const (
	StopNone StopReason = iota
	StopManual
	StopSilence
	StopHardLimit
)

func (r StopReason) String() string {
	switch r {
	case StopManual:
		return "manual"
	case StopSilence:
		return "silence"
	case StopHardLimit:
		return "time limit"
	}
	return ""
}

// Kind selects the one-shot analysis endpoint.
type Kind int

const (
	KindText Kind = iota
	KindVoice
)

func (k Kind) String() string {
	if k == KindVoice {
		return "voice"
	}
	return "text"
}

// Classes returns the chart axis for the kind.
func (k Kind) Classes() []emotion.Class {
	if k == KindVoice {
		return emotion.FaceClasses
	}
	return emotion.TextClasses
}

// Readout is the dominant emotion reported with a camera prediction.
type Readout struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type CameraSnapshot struct {
	State     CameraState           `json:"-"`
	StateName string                `json:"state"`
	RunID     string                `json:"run_id,omitempty"`
	Chart     emotion.DisplayVector `json:"chart"`
	Dominant  *Readout              `json:"dominant,omitempty"`
	Updates   int                   `json:"updates"`
	Frames    int                   `json:"frames"`
	LastFrame []byte                `json:"-"`
	Error     string                `json:"error,omitempty"`
}

type SpeechSnapshot struct {
	State      SpeechState `json:"-"`
	StateName  string      `json:"state"`
	RunID      string      `json:"run_id,omitempty"`
	Transcript string      `json:"transcript"`
	Remaining  int         `json:"remaining_seconds"`
	StopReason string      `json:"stop_reason,omitempty"`
	Restarts   int         `json:"restarts"`
	Error      string      `json:"error,omitempty"`
}

type AnalyzerSnapshot struct {
	Kind  string                `json:"kind"`
	Chart emotion.DisplayVector `json:"chart"`
	Last  *Result               `json:"last,omitempty"`
	Busy  bool                  `json:"busy"`
	Error string                `json:"error,omitempty"`
}

// Snapshot is a consistent-per-component view for presentation.
type Snapshot struct {
	Connected bool             `json:"connected"`
	Camera    CameraSnapshot   `json:"camera"`
	Speech    SpeechSnapshot   `json:"speech"`
	Text      AnalyzerSnapshot `json:"text"`
	Voice     AnalyzerSnapshot `json:"voice"`
	History   []emotion.Record `json:"history"`
	TakenAt   time.Time        `json:"taken_at"`
}
