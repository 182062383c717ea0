package ws_test

import (
	"testing"
	"time"

	"github.com/draftloop/draftloop/internal/ws"
)

func TestEventBuffer_SinceReturnsNewerEvents(t *testing.T) {
	eb := ws.NewEventBuffer(10, time.Hour)

	for i := uint64(1); i <= 5; i++ {
		eb.Append(&ws.Event{Type: "version.created", ID: i, Time: time.Now()})
	}

	events := eb.Since(2)
	if len(events) != 3 {
		t.Fatalf("expected 3 events after ID 2, got %d", len(events))
	}

	if events[0].ID != 3 {
		t.Errorf("expected first replayed ID 3, got %d", events[0].ID)
	}
}

func TestEventBuffer_SinceEmpty(t *testing.T) {
	eb := ws.NewEventBuffer(10, time.Hour)

	if events := eb.Since(0); events != nil {
		t.Errorf("expected nil from empty buffer, got %v", events)
	}
}

func TestEventBuffer_SinceAllConsumed(t *testing.T) {
	eb := ws.NewEventBuffer(10, time.Hour)
	eb.Append(&ws.Event{ID: 1, Time: time.Now()})
	eb.Append(&ws.Event{ID: 2, Time: time.Now()})

	if events := eb.Since(2); events != nil {
		t.Errorf("expected nil when caller is up to date, got %v", events)
	}
}

func TestEventBuffer_EvictsBeyondMaxLen(t *testing.T) {
	eb := ws.NewEventBuffer(3, time.Hour)

	for i := uint64(1); i <= 5; i++ {
		eb.Append(&ws.Event{ID: i, Time: time.Now()})
	}

	if oldest := eb.OldestID(); oldest != 3 {
		t.Errorf("expected oldest ID 3 after eviction, got %d", oldest)
	}

	events := eb.Since(0)
	if len(events) != 3 {
		t.Errorf("expected 3 buffered events, got %d", len(events))
	}
}

func TestEventBuffer_EvictsExpired(t *testing.T) {
	eb := ws.NewEventBuffer(10, 50*time.Millisecond)

	eb.Append(&ws.Event{ID: 1, Time: time.Now().Add(-time.Minute)})
	eb.Append(&ws.Event{ID: 2, Time: time.Now()})

	if oldest := eb.OldestID(); oldest != 2 {
		t.Errorf("expected expired event to be evicted, oldest = %d", oldest)
	}
}

func TestEventBuffer_OldestIDEmpty(t *testing.T) {
	eb := ws.NewEventBuffer(10, time.Hour)

	if oldest := eb.OldestID(); oldest != 0 {
		t.Errorf("expected 0 for empty buffer, got %d", oldest)
	}
}

func TestEventSequence_Monotonic(t *testing.T) {
	es := ws.NewEventSequence()

	if got := es.Next(); got != 1 {
		t.Fatalf("expected first ID 1, got %d", got)
	}
	if got := es.Next(); got != 2 {
		t.Fatalf("expected second ID 2, got %d", got)
	}
}
