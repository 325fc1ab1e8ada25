// Package clientstore persists the per-browser key-value area that backs a session.
package clientstore

import (
	"context"
	"errors"
)

// ErrTampered is returned when a stored value fails authentication.
var ErrTampered = errors.New("stored value failed authentication")

// Store reads and writes string values keyed by client id.
type Store interface {
	// GetAll returns every stored key for clientID. Missing clients yield an empty map.
	GetAll(ctx context.Context, clientID string) (map[string]string, error)
	// SetMany upserts vals atomically.
	SetMany(ctx context.Context, clientID string, vals map[string]string) error
	// Remove deletes keys for clientID. Absent keys are ignored.
	Remove(ctx context.Context, clientID string, keys ...string) error
}
