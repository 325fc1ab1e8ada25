package api

import (
	"context"
	"net/http"

	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/organizer"
)

// DonorProfile fetches the authenticated donor's profile.
func (c *Client) DonorProfile(ctx context.Context) (donor.Profile, error) {
	var p donor.Profile
	err := c.do(ctx, "get donor profile", http.MethodGet, "/api/donors/me", nil, nil, &p)
	return p, err
}

// UpdateDonorProfile saves profile fields and returns the stored record.
func (c *Client) UpdateDonorProfile(ctx context.Context, payload map[string]any) (donor.Profile, error) {
	var p donor.Profile
	err := c.do(ctx, "update profile", http.MethodPut, "/api/donors/me", nil, payload, &p)
	return p, err
}

// OrganizerProfile fetches the authenticated organizer's profile.
func (c *Client) OrganizerProfile(ctx context.Context) (organizer.Profile, error) {
	var p organizer.Profile
	err := c.do(ctx, "get organizer profile", http.MethodGet, "/api/organizers/me", nil, nil, &p)
	return p, err
}

// UpdateOrganizerProfile saves profile fields and returns the stored record.
func (c *Client) UpdateOrganizerProfile(ctx context.Context, payload map[string]any) (organizer.Profile, error) {
	var p organizer.Profile
	err := c.do(ctx, "update organizer profile", http.MethodPut, "/api/organizers/me", nil, payload, &p)
	return p, err
}
