package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"redconnect/internal/domain/donation"
)

// Donations lists donations visible to the caller.
func (c *Client) Donations(ctx context.Context, page Page) ([]donation.Donation, error) {
	q := url.Values{}
	page.apply(q)
	var ds []donation.Donation
	err := c.do(ctx, "get donations", http.MethodGet, "/api/donations/", q, nil, &ds)
	return ds, err
}

// MyDonations lists the authenticated donor's donations.
func (c *Client) MyDonations(ctx context.Context) ([]donation.Donation, error) {
	var ds []donation.Donation
	err := c.do(ctx, "get donations", http.MethodGet, "/api/donations/my-donations", nil, nil, &ds)
	return ds, err
}

// DonorDonations lists donations of one donor.
func (c *Client) DonorDonations(ctx context.Context, donorID int64) ([]donation.Donation, error) {
	var ds []donation.Donation
	err := c.do(ctx, "get donations", http.MethodGet, fmt.Sprintf("/api/donations/donor/%d", donorID), nil, nil, &ds)
	return ds, err
}

// CreateDonation records a donation.
func (c *Client) CreateDonation(ctx context.Context, payload map[string]any) (donation.Donation, error) {
	var d donation.Donation
	err := c.do(ctx, "create donation", http.MethodPost, "/api/donations", nil, payload, &d)
	return d, err
}
