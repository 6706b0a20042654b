package clients

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

// PredictionSize is the number of classes in /emotion_data predictions.
const PredictionSize = 7

// ErrNoData is returned by EmotionData while the backend has no frame
// prediction yet.
var ErrNoData = errors.New("no emotion data available")

// --- Camera (/start_camera, /stop_camera) ---

// StartCamera returns the backend acknowledgement text.
func (h *HTTP) StartCamera(ctx context.Context) (string, error) {
	return h.cameraCall(ctx, "/start_camera", "start_camera")
}

// StopCamera returns the backend acknowledgement text.
func (h *HTTP) StopCamera(ctx context.Context) (string, error) {
	return h.cameraCall(ctx, "/stop_camera", "stop_camera")
}

func (h *HTTP) cameraCall(ctx context.Context, path, op string) (string, error) {
	resp, err := h.get(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return "", backendError(resp)
	}
	return readText(op, resp)
}

// --- Predictions (/emotion_data) ---

type EmotionData struct {
	Predictions     []float64 `json:"predictions"`
	DominantEmotion string    `json:"dominant_emotion"`
	Confidence      float64   `json:"confidence"`
}

type emotionDataWire struct {
	Predictions     *[]float64 `json:"predictions"`
	DominantEmotion *string    `json:"dominant_emotion"`
	Confidence      *float64   `json:"confidence"`
}

// EmotionData fetches the latest frame prediction. The payload is checked
// against its schema; a bad payload is a ValidationError.
func (h *HTTP) EmotionData(ctx context.Context) (*EmotionData, error) {
	resp, err := h.get(ctx, "/emotion_data")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if !ok(resp) {
		return nil, backendError(resp)
	}

	var w emotionDataWire
	if err := decode("emotion_data", resp.Body, &w); err != nil {
		return nil, err
	}
	return w.validate()
}

func (w emotionDataWire) validate() (*EmotionData, error) {
	switch {
	case w.Predictions == nil:
		return nil, common.Validation("emotion_data: missing predictions")
	case len(*w.Predictions) != PredictionSize:
		return nil, common.Validation("emotion_data: expected %d predictions, got %d", PredictionSize, len(*w.Predictions))
	case w.DominantEmotion == nil || *w.DominantEmotion == "":
		return nil, common.Validation("emotion_data: missing dominant_emotion")
	case w.Confidence == nil:
		return nil, common.Validation("emotion_data: missing confidence")
	}
	for i, p := range *w.Predictions {
		if p < 0 || math.IsNaN(p) {
			return nil, common.Validation("emotion_data: prediction %d is negative", i)
		}
	}
	return &EmotionData{
		Predictions:     *w.Predictions,
		DominantEmotion: *w.DominantEmotion,
		Confidence:      *w.Confidence,
	}, nil
}
