package projections

import (
	"context"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/bloodbank"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/donation"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/organizer"
)

// DirectoryAPI covers the blood bank directory endpoints.
type DirectoryAPI interface {
	BloodBanks(ctx context.Context, q api.BloodBankQuery) ([]bloodbank.BloodBank, error)
	BloodBankStates(ctx context.Context) ([]string, error)
}

// EventReader covers the public event endpoints.
type EventReader interface {
	Events(ctx context.Context, q api.EventQuery) ([]event.Event, error)
	Event(ctx context.Context, id int64) (event.Event, error)
}

// DonorDashboardAPI covers what the donor dashboard reads.
type DonorDashboardAPI interface {
	DonorProfile(ctx context.Context) (donor.Profile, error)
	MyDonations(ctx context.Context) ([]donation.Donation, error)
	MyCertificates(ctx context.Context) ([]certificate.Certificate, error)
}

// OrganizerDashboardAPI covers what the organizer dashboard reads.
type OrganizerDashboardAPI interface {
	OrganizerProfile(ctx context.Context) (organizer.Profile, error)
	MyEvents(ctx context.Context) ([]event.Event, error)
	Donations(ctx context.Context, page api.Page) ([]donation.Donation, error)
	Certificates(ctx context.Context, page api.Page) ([]certificate.Certificate, error)
}

var (
	_ DirectoryAPI          = (*api.Client)(nil)
	_ EventReader           = (*api.Client)(nil)
	_ DonorDashboardAPI     = (*api.Client)(nil)
	_ OrganizerDashboardAPI = (*api.Client)(nil)
)
