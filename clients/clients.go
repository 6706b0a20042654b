package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

// HTTP talks to the analysis backend. Every error it returns is a
// *common.Error: transport failures are ErrConnectivity, non-2xx replies
// ErrBackend and malformed bodies ErrValidation.
type HTTP struct {
	base   string
	c      *http.Client
	stream *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTP{
		base:   strings.TrimRight(baseURL, "/"),
		c:      &http.Client{Timeout: timeout},
		stream: &http.Client{},
	}
}

func (h *HTTP) BaseURL() string { return h.base }

func (h *HTTP) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+path, nil)
	if err != nil {
		return nil, common.Connectivity(err)
	}
	resp, err := h.c.Do(req)
	if err != nil {
		return nil, common.Connectivity(err)
	}
	return resp, nil
}

func (h *HTTP) postJSON(ctx context.Context, path string, in any) (*http.Response, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, common.Connectivity(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.c.Do(req)
	if err != nil {
		return nil, common.Connectivity(err)
	}
	return resp, nil
}

// backendError turns a non-2xx reply into a BackendError, preferring the
// "message" or "error" field of a JSON body.
func backendError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return common.Backend(resp.StatusCode, e.Message)
		}
		if e.Error != "" {
			return common.Backend(resp.StatusCode, e.Error)
		}
	}
	return common.Backend(resp.StatusCode, strings.TrimSpace(string(body)))
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func decode(op string, r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return common.Validation("%s decode: %v", op, err)
	}
	return nil
}

func readText(op string, resp *http.Response) (string, error) {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", common.Connectivity(fmt.Errorf("%s read: %w", op, err))
	}
	return strings.TrimSpace(string(b)), nil
}
