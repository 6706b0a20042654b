package clients

import (
	"context"
	"io"
)

// --- Health (/health) ---

// Health reports whether the backend answered /health with a 2xx.
func (h *HTTP) Health(ctx context.Context) bool {
	resp, err := h.get(ctx, "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return ok(resp)
}
