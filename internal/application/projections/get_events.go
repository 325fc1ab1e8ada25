package projections

import (
	"context"
	"log/slog"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/event"
)

// AllEventsDeps holds dependencies for QueryAllEvents and QueryEvent.
type AllEventsDeps struct {
	API EventReader
}

// QueryAllEvents walks the event list in chunks of event.FetchPageSize until a
// short or empty chunk arrives. Accumulation is unbounded.
// POST: Any failed chunk fails the whole query; no partial list is returned
func QueryAllEvents(ctx context.Context, deps AllEventsDeps) ([]event.Event, error) {
	var all []event.Event
	for skip := 0; ; skip += event.FetchPageSize {
		chunk, err := deps.API.Events(ctx, api.EventQuery{Page: api.Page{Skip: skip, Limit: event.FetchPageSize}})
		if err != nil {
			slog.Warn("event_event", "event", "list_failed", "skip", skip, "error", err)
			return nil, err
		}
		all = append(all, chunk...)
		if len(chunk) < event.FetchPageSize {
			break
		}
	}
	return all, nil
}

// EventQuery identifies a single event.
type EventQuery struct {
	ID int64
}

// QueryEvent fetches one event.
func QueryEvent(ctx context.Context, query EventQuery, deps AllEventsDeps) (event.Event, error) {
	return deps.API.Event(ctx, query.ID)
}
