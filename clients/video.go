package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

// maxFrameSize bounds a single JPEG part.
const maxFrameSize = 8 << 20

// Frame is one image of the /video_feed stream.
type Frame struct {
	Seq         int
	ContentType string
	Data        []byte
	ReceivedAt  time.Time
}

// --- Video (/video_feed) ---

// VideoFeed reads the multipart/x-mixed-replace stream and calls fn for each
// frame until ctx is cancelled, fn returns an error or the stream breaks.
// A clean cancellation returns ctx.Err().
func (h *HTTP) VideoFeed(ctx context.Context, fn func(Frame) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/video_feed", nil)
	if err != nil {
		return common.Connectivity(err)
	}
	resp, err := h.stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return common.Connectivity(err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return backendError(resp)
	}

	mt, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mt, "multipart/") || params["boundary"] == "" {
		return common.Validation("video_feed: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	mr := multipart.NewReader(resp.Body, params["boundary"])
	for seq := 1; ; seq++ {
		part, err := mr.NextPart()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF {
				return common.Connectivity(errors.New("video_feed: stream ended"))
			}
			return common.Connectivity(fmt.Errorf("video_feed: %w", err))
		}
		data, err := io.ReadAll(io.LimitReader(part, maxFrameSize))
		part.Close()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return common.Connectivity(fmt.Errorf("video_feed frame: %w", err))
		}
		if err := fn(Frame{Seq: seq, ContentType: part.Header.Get("Content-Type"), Data: data, ReceivedAt: time.Now()}); err != nil {
			return err
		}
	}
}
