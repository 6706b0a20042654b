package clients

import (
	"context"
	"math"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

type AnalyzeReq struct {
	Text string `json:"text"`
}

// Analysis is the label and [0,1] confidence of a one-shot query.
type Analysis struct {
	Label      string
	Confidence float64
}

// --- Text sentiment (/analyze_text) ---
type textResp struct {
	Sentiment  *string  `json:"sentiment"`
	Confidence *float64 `json:"confidence"`
}

func (h *HTTP) AnalyzeText(ctx context.Context, text string) (*Analysis, error) {
	var out textResp
	if err := h.analyze(ctx, "/analyze_text", "analyze_text", text, &out); err != nil {
		return nil, err
	}
	return checkAnalysis("analyze_text", "sentiment", out.Sentiment, out.Confidence)
}

// --- Voice emotion (/analyze_voice_emotion) ---
type voiceResp struct {
	Emotion    *string  `json:"emotion"`
	Confidence *float64 `json:"confidence"`
}

func (h *HTTP) AnalyzeVoice(ctx context.Context, text string) (*Analysis, error) {
	var out voiceResp
	if err := h.analyze(ctx, "/analyze_voice_emotion", "analyze_voice_emotion", text, &out); err != nil {
		return nil, err
	}
	return checkAnalysis("analyze_voice_emotion", "emotion", out.Emotion, out.Confidence)
}

func (h *HTTP) analyze(ctx context.Context, path, op, text string, out any) error {
	resp, err := h.postJSON(ctx, path, AnalyzeReq{Text: text})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return backendError(resp)
	}
	return decode(op, resp.Body, out)
}

func checkAnalysis(op, field string, label *string, conf *float64) (*Analysis, error) {
	if label == nil || *label == "" {
		return nil, common.Validation("%s: missing %s", op, field)
	}
	if conf == nil {
		return nil, common.Validation("%s: missing confidence", op)
	}
	if math.IsNaN(*conf) || *conf < 0 || *conf > 1 {
		return nil, common.Validation("%s: confidence %v outside [0,1]", op, *conf)
	}
	return &Analysis{Label: *label, Confidence: *conf}, nil
}
