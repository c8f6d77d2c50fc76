package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func TestQueue_DrainsOnTick(t *testing.T) {
	rec := &recordingSink{}
	q := NewQueue(rec, 10*time.Millisecond)
	go q.Run()
	defer q.Stop()

	q.Publish(Event{Kind: KindPhase, Phase: "plan"})
	q.Publish(Event{Kind: KindSummary, Summary: &SummaryFields{Success: 1}})

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_StopFlushesRemaining(t *testing.T) {
	rec := &recordingSink{}
	q := NewQueue(rec, time.Hour)
	go q.Run()

	q.Publish(Event{Kind: KindPhase})
	q.Stop()

	assert.Len(t, rec.snapshot(), 1)
}
