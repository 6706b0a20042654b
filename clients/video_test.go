package clients

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

func writeFrame(w http.ResponseWriter, data string) {
	fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n%s\r\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestVideoFeedFramesThenEnd(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		writeFrame(w, "jpeg-1")
		writeFrame(w, "jpeg-2")
		fmt.Fprint(w, "--frame--\r\n")
	}))

	var got []Frame
	err := c.VideoFeed(context.Background(), func(f Frame) error {
		got = append(got, f)
		return nil
	})
	assert.ErrorIs(t, err, common.ErrConnectivity)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "jpeg-1", string(got[0].Data))
		assert.Equal(t, "image/jpeg", got[0].ContentType)
		assert.Equal(t, 2, got[1].Seq)
	}
}

func TestVideoFeedCancel(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		writeFrame(w, "jpeg-1")
		writeFrame(w, "jpeg-2")
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := 0
	err := c.VideoFeed(ctx, func(f Frame) error {
		frames++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, frames)
}

func TestVideoFeedRejectsNonMultipart(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg")
	}))
	err := c.VideoFeed(context.Background(), func(Frame) error { return nil })
	assert.ErrorIs(t, err, common.ErrValidation)
}
