package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"redconnect/internal/domain/event"
)

// EventQuery holds optional event list filters.
type EventQuery struct {
	Page     Page
	Status   string
	City     string
	State    string
	FromDate string
	ToDate   string
}

func (q EventQuery) values() url.Values {
	v := url.Values{}
	q.Page.apply(v)
	for key, val := range map[string]string{
		"status":    q.Status,
		"city":      q.City,
		"state":     q.State,
		"from_date": q.FromDate,
		"to_date":   q.ToDate,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// RegisterResult is the event registration acknowledgement.
type RegisterResult struct {
	Message string `json:"message"`
	EventID int64  `json:"event_id"`
}

// Events lists one page of events.
func (c *Client) Events(ctx context.Context, q EventQuery) ([]event.Event, error) {
	var events []event.Event
	err := c.do(ctx, "get events", http.MethodGet, "/api/events/", q.values(), nil, &events)
	return events, err
}

// MyEvents lists the authenticated organizer's events.
func (c *Client) MyEvents(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	err := c.do(ctx, "get your events", http.MethodGet, "/api/events/my-events", nil, nil, &events)
	return events, err
}

// Event fetches a single event.
func (c *Client) Event(ctx context.Context, id int64) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, "get event", http.MethodGet, fmt.Sprintf("/api/events/%d", id), nil, nil, &e)
	return e, err
}

// CreateEvent creates an event owned by the authenticated organizer.
func (c *Client) CreateEvent(ctx context.Context, payload map[string]any) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, "create event", http.MethodPost, "/api/events/", nil, payload, &e)
	return e, err
}

// UpdateEvent replaces editable fields of an event.
func (c *Client) UpdateEvent(ctx context.Context, id int64, payload map[string]any) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, "update event", http.MethodPut, fmt.Sprintf("/api/events/%d", id), nil, payload, &e)
	return e, err
}

// DeleteEvent removes an event. The server answers 204.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, "delete event", http.MethodDelete, fmt.Sprintf("/api/events/%d", id), nil, nil, nil)
}

// RegisterForEvent registers the authenticated donor for an event.
func (c *Client) RegisterForEvent(ctx context.Context, id int64) (RegisterResult, error) {
	var r RegisterResult
	err := c.do(ctx, "register for event", http.MethodPost, fmt.Sprintf("/api/events/%d/register", id), nil, nil, &r)
	return r, err
}
