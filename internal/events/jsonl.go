package events

import (
	"encoding/json"
	"io"
	"sync"
)

// JSONLSink writes one JSON object per line to w, per spec.md §6's
// "--events jsonl" contract. Safe for concurrent Publish calls.
type JSONLSink struct {
	mu sync.Mutex
	w  io.Writer
	enc *json.Encoder
}

// NewJSONLSink creates a JSONLSink writing to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w, enc: json.NewEncoder(w)}
}

// Publish writes e as one JSON line.
func (s *JSONLSink) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(e)
}

var _ Sink = (*JSONLSink)(nil)
