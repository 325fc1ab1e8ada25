package orchestrators

import (
	"context"
	"log/slog"

	"redconnect/internal/domain/event"
	domainSession "redconnect/internal/domain/session"
)

// EventDeps holds dependencies for the event orchestrators.
type EventDeps struct {
	API EventAPI
}

// --- Create Event ---

// CreateEventInput carries the new event form.
type CreateEventInput struct {
	Form event.Form
}

// ExecuteCreateEvent validates and creates the event.
// The caller reloads the organizer's events by redirecting to the dashboard.
// PRE: deps.API is authenticated as an organizer
// POST: On validation failure no network call is made; on success exactly one call is made
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps EventDeps) (event.Event, error) {
	if err := input.Form.Validate(); err != nil {
		return event.Event{}, err
	}
	e, err := deps.API.CreateEvent(ctx, input.Form.Payload())
	if err != nil {
		return event.Event{}, err
	}
	slog.Info("event_event", "event", "created", "event_id", e.ID)
	return e, nil
}

// --- Update Event ---

// UpdateEventInput carries the edited event form.
type UpdateEventInput struct {
	EventID int64
	Form    event.Form
}

// ExecuteUpdateEvent validates and saves the event.
func ExecuteUpdateEvent(ctx context.Context, input UpdateEventInput, deps EventDeps) (event.Event, error) {
	if err := input.Form.Validate(); err != nil {
		return event.Event{}, err
	}
	e, err := deps.API.UpdateEvent(ctx, input.EventID, input.Form.Payload())
	if err != nil {
		return event.Event{}, err
	}
	slog.Info("event_event", "event", "updated", "event_id", e.ID)
	return e, nil
}

// --- Delete Event ---

// DeleteEventInput identifies the event to delete.
type DeleteEventInput struct {
	EventID int64
}

// ExecuteDeleteEvent deletes the event.
func ExecuteDeleteEvent(ctx context.Context, input DeleteEventInput, deps EventDeps) error {
	if err := deps.API.DeleteEvent(ctx, input.EventID); err != nil {
		return err
	}
	slog.Info("event_event", "event", "deleted", "event_id", input.EventID)
	return nil
}

// --- Join Event ---

// JoinEventInput carries the joining browser's session and the event.
type JoinEventInput struct {
	Session domainSession.Session
	EventID int64
}

// JoinEventResult carries the server acknowledgement.
type JoinEventResult struct {
	Message string
}

// ExecuteJoinEvent registers the current user for an event.
// Only a token is required; capacity and role rules are enforced by the server.
// The caller shows the updated count by redirecting to a page that loads the event.
// PRE: deps.API is authenticated with input.Session's token
// POST: Returns event.ErrLoginRequired without any network call when no token is present
func ExecuteJoinEvent(ctx context.Context, input JoinEventInput, deps EventDeps) (JoinEventResult, error) {
	if !input.Session.IsAuthenticated() {
		return JoinEventResult{}, event.ErrLoginRequired
	}
	ack, err := deps.API.RegisterForEvent(ctx, input.EventID)
	if err != nil {
		return JoinEventResult{}, err
	}
	msg := ack.Message
	if msg == "" {
		msg = "You have successfully registered for this event"
	}
	slog.Info("event_event", "event", "joined", "event_id", input.EventID, "user_id", input.Session.UserID)
	return JoinEventResult{Message: msg}, nil
}
