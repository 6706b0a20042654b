package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

func newClient(t *testing.T, h http.Handler) *HTTP {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTP(srv.URL+"/", 2*time.Second)
}

func TestHealth(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.True(t, c.Health(context.Background()))

	down := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	assert.False(t, down.Health(context.Background()))

	unreachable := NewHTTP("http://127.0.0.1:1", time.Second)
	assert.False(t, unreachable.Health(context.Background()))
}

func TestCameraAcks(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start_camera":
			fmt.Fprint(w, "Camera started\n")
		case "/stop_camera":
			fmt.Fprint(w, "Camera stopped")
		}
	}))
	ack, err := c.StartCamera(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Camera started", ack)

	ack, err = c.StopCamera(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Camera stopped", ack)
}

func TestCameraBackendError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error starting camera: device busy", http.StatusInternalServerError)
	}))
	_, err := c.StartCamera(context.Background())
	assert.ErrorIs(t, err, common.ErrBackend)
	assert.Equal(t, "Error starting camera: device busy", err.Error())
}

func TestEmotionData(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"ok", 200, `{"predictions":[0.1,0.05,0.05,0.6,0.1,0.05,0.05],"dominant_emotion":"happy","confidence":0.6}`, nil},
		{"no data", 404, `{"error":"No emotion data available"}`, ErrNoData},
		{"short vector", 200, `{"predictions":[0.5,0.5],"dominant_emotion":"happy","confidence":0.5}`, common.ErrValidation},
		{"missing label", 200, `{"predictions":[0,0,0,1,0,0,0],"confidence":1}`, common.ErrValidation},
		{"missing confidence", 200, `{"predictions":[0,0,0,1,0,0,0],"dominant_emotion":"happy"}`, common.ErrValidation},
		{"not an array", 200, `{"predictions":"lots","dominant_emotion":"happy","confidence":1}`, common.ErrValidation},
		{"negative", 200, `{"predictions":[0,0,0,1,0,0,-1],"dominant_emotion":"happy","confidence":1}`, common.ErrValidation},
		{"server error", 500, `{"error":"model not loaded"}`, common.ErrBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			got, err := c.EmotionData(context.Background())
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "happy", got.DominantEmotion)
			assert.Len(t, got.Predictions, PredictionSize)
			assert.InDelta(t, 0.6, got.Confidence, 1e-9)
		})
	}
}

func TestAnalyzeText(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze_text", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req AnalyzeReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what a day", req.Text)
		fmt.Fprint(w, `{"sentiment":"positive","confidence":0.8}`)
	}))
	got, err := c.AnalyzeText(context.Background(), "what a day")
	require.NoError(t, err)
	assert.Equal(t, &Analysis{Label: "positive", Confidence: 0.8}, got)
}

func TestAnalyzeVoice(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze_voice_emotion", r.URL.Path)
		fmt.Fprint(w, `{"emotion":"sad","confidence":0.7}`)
	}))
	got, err := c.AnalyzeVoice(context.Background(), "I miss them")
	require.NoError(t, err)
	assert.Equal(t, "sad", got.Label)
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("backend message verbatim", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"status":"error","message":"Text model not loaded"}`)
		}))
		_, err := c.AnalyzeText(context.Background(), "hi")
		assert.ErrorIs(t, err, common.ErrBackend)
		assert.Equal(t, "Text model not loaded", err.Error())
	})
	t.Run("connectivity", func(t *testing.T) {
		c := NewHTTP("http://127.0.0.1:1", time.Second)
		_, err := c.AnalyzeVoice(context.Background(), "hi")
		assert.ErrorIs(t, err, common.ErrConnectivity)
	})
	t.Run("bad confidence", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"sentiment":"positive","confidence":3}`)
		}))
		_, err := c.AnalyzeText(context.Background(), "hi")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
	t.Run("wrong field", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"emotion":"happy","confidence":0.5}`)
		}))
		_, err := c.AnalyzeText(context.Background(), "hi")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}
