package emotion

import (
	"sync"
	"time"
)

// HistorySize is how many analyses are kept.
const HistorySize = 5

// Record is one finished one-shot analysis.
type Record struct {
	ID                int64     `json:"id"`
	SourceText        string    `json:"source_text"`
	Label             Class     `json:"label"`
	DisplayConfidence int       `json:"display_confidence"`
	CapturedAt        time.Time `json:"captured_at"`
}

// History is a most-recent-first log shared by the text and voice flows.
type History struct {
	mu     sync.Mutex
	size   int
	lastID int64
	items  []Record
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = HistorySize
	}
	return &History{size: size}
}

// NextID returns a strictly increasing id derived from t.
func (h *History) NextID(t time.Time) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := t.UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id
	return id
}

// Record prepends r and drops the oldest entries beyond capacity.
func (h *History) Record(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	items := make([]Record, 0, h.size)
	items = append(items, r)
	items = append(items, h.items...)
	if len(items) > h.size {
		items = items[:h.size]
	}
	h.items = items
}

func (h *History) List() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.items))
	copy(out, h.items)
	return out
}

func (h *History) Clear() {
	h.mu.Lock()
	h.items = nil
	h.mu.Unlock()
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}
