package event

import (
	"errors"
	"strconv"
	"strings"

	"redconnect/internal/domain/formcheck"
)

// FetchPageSize is the chunk size used when listing all events. It is the server maximum.
const FetchPageSize = 100

// DefaultCapacity is used when an organizer leaves max participants blank.
const DefaultCapacity = 100

// Status constants
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrMissingRequired = errors.New("please fill in all required fields")
	ErrLoginRequired   = errors.New("please log in to join events")
)

// Event mirrors a donation drive returned by the server.
type Event struct {
	ID                     int64  `json:"id"`
	OrganizerID            int64  `json:"organizer_id"`
	Title                  string `json:"title"`
	Description            string `json:"description"`
	EventDate              string `json:"event_date"`
	StartTime              string `json:"start_time"`
	EndTime                string `json:"end_time"`
	Venue                  string `json:"venue"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	MaxParticipants        int    `json:"max_participants"`
	RegisteredParticipants int    `json:"registered_participants"`
	Status                 string `json:"status"`
	BannerImage            string `json:"banner_image"`
	CreatedAt              string `json:"created_at"`
}

// Capacity returns the participant limit; zero means unlimited.
func (e Event) Capacity() int {
	return e.MaxParticipants
}

// IsFull reports whether registrations have reached capacity.
// INVARIANT: An event without a capacity is never full
func (e Event) IsFull() bool {
	return e.MaxParticipants > 0 && e.RegisteredParticipants >= e.MaxParticipants
}

// SpotsLeft returns remaining places, or -1 when unlimited.
func (e Event) SpotsLeft() int {
	if e.MaxParticipants <= 0 {
		return -1
	}
	left := e.MaxParticipants - e.RegisteredParticipants
	if left < 0 {
		return 0
	}
	return left
}

// Location joins venue, city and state for display.
func (e Event) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Venue, e.City, e.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Form is the organizer's create/edit event form.
type Form struct {
	Title           string `validate:"required"`
	Description     string
	EventDate       string `validate:"required"`
	StartTime       string
	EndTime         string
	Venue           string `validate:"required"`
	City            string `validate:"required"`
	State           string `validate:"required"`
	MaxParticipants string
}

// FormFromEvent seeds an edit form from an existing event.
func FormFromEvent(e Event) Form {
	capacity := ""
	if e.MaxParticipants > 0 {
		capacity = strconv.Itoa(e.MaxParticipants)
	}
	return Form{
		Title:           e.Title,
		Description:     e.Description,
		EventDate:       e.EventDate,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Venue:           e.Venue,
		City:            e.City,
		State:           e.State,
		MaxParticipants: capacity,
	}
}

// Validate checks the required fields before any network call.
func (f Form) Validate() error {
	return formcheck.Check(f, formcheck.Rule{Tag: "required", Err: ErrMissingRequired})
}

// Payload builds the create/update body. A blank or invalid capacity becomes DefaultCapacity.
// PRE: Validate returned nil
func (f Form) Payload() map[string]any {
	capacity, err := strconv.Atoi(strings.TrimSpace(f.MaxParticipants))
	if err != nil || capacity <= 0 {
		capacity = DefaultCapacity
	}
	return map[string]any{
		"title":            strings.TrimSpace(f.Title),
		"description":      formcheck.Blank(f.Description),
		"event_date":       strings.TrimSpace(f.EventDate),
		"start_time":       formcheck.Blank(f.StartTime),
		"end_time":         formcheck.Blank(f.EndTime),
		"venue":            strings.TrimSpace(f.Venue),
		"city":             strings.TrimSpace(f.City),
		"state":            strings.TrimSpace(f.State),
		"max_participants": capacity,
	}
}
