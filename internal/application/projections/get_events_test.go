package projections

import (
	"context"
	"errors"
	"testing"

	"redconnect/internal/domain/event"
)

// TestQueryAllEvents_FullThenEmpty verifies 100 then 0 stops after two requests.
func TestQueryAllEvents_FullThenEmpty(t *testing.T) {
	fake := &fakeAPI{eventPages: [][]event.Event{makeEvents(100, 0), {}}}
	got, err := QueryAllEvents(context.Background(), AllEventsDeps{API: fake})
	if err != nil {
		t.Fatalf("QueryAllEvents: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("events = %d, want 100", len(got))
	}
	if len(fake.eventSkips) != 2 || fake.eventSkips[1] != 100 {
		t.Errorf("skips = %v, want [0 100]", fake.eventSkips)
	}
}

// TestQueryAllEvents_ShortPageStops verifies 100, 100, 30 gives three requests and 230 events.
func TestQueryAllEvents_ShortPageStops(t *testing.T) {
	fake := &fakeAPI{eventPages: [][]event.Event{makeEvents(100, 0), makeEvents(100, 100), makeEvents(30, 200)}}
	got, err := QueryAllEvents(context.Background(), AllEventsDeps{API: fake})
	if err != nil {
		t.Fatalf("QueryAllEvents: %v", err)
	}
	if len(got) != 230 {
		t.Errorf("events = %d, want 230", len(got))
	}
	if len(fake.eventSkips) != 3 || fake.eventSkips[2] != 200 {
		t.Errorf("skips = %v, want [0 100 200]", fake.eventSkips)
	}
	if got[229].ID != 230 {
		t.Errorf("last id = %d, want 230", got[229].ID)
	}
}

// TestQueryAllEvents_Empty verifies a single empty page yields no events.
func TestQueryAllEvents_Empty(t *testing.T) {
	fake := &fakeAPI{eventPages: [][]event.Event{{}}}
	got, err := QueryAllEvents(context.Background(), AllEventsDeps{API: fake})
	if err != nil || len(got) != 0 || len(fake.eventSkips) != 1 {
		t.Errorf("got %d events, err %v, skips %v", len(got), err, fake.eventSkips)
	}
}

// TestQueryAllEvents_ChunkFailure verifies a failed chunk discards accumulated events.
func TestQueryAllEvents_ChunkFailure(t *testing.T) {
	fake := &fakeAPI{eventPages: [][]event.Event{makeEvents(100, 0), nil}, eventsErr: errBoom}
	got, err := QueryAllEvents(context.Background(), AllEventsDeps{API: fake})
	if !errors.Is(err, errBoom) || got != nil {
		t.Errorf("got %d events, err %v", len(got), err)
	}
}

// TestQueryEvent verifies the single event is returned.
func TestQueryEvent(t *testing.T) {
	e, err := QueryEvent(context.Background(), EventQuery{ID: 4}, AllEventsDeps{API: &fakeAPI{}})
	if err != nil || e.ID != 4 {
		t.Errorf("got %+v, %v", e, err)
	}
}
