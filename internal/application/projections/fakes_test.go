package projections

import (
	"context"
	"errors"
	"sync"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/bloodbank"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/donation"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/organizer"
)

var errBoom = errors.New("boom")

// fakeAPI serves canned data and records event list requests.
type fakeAPI struct {
	mu sync.Mutex

	banks     []bloodbank.BloodBank
	banksErr  error
	bankQuery api.BloodBankQuery
	states    []string
	statesErr error

	eventPages [][]event.Event
	eventsErr  error
	eventSkips []int

	donorProfile     donor.Profile
	profileErr       error
	donations        []donation.Donation
	donationsErr     error
	certificates     []certificate.Certificate
	certificatesErr  error
	organizerProfile organizer.Profile
	myEvents         []event.Event
}

func (f *fakeAPI) BloodBanks(_ context.Context, q api.BloodBankQuery) ([]bloodbank.BloodBank, error) {
	f.mu.Lock()
	f.bankQuery = q
	f.mu.Unlock()
	return f.banks, f.banksErr
}

func (f *fakeAPI) BloodBankStates(_ context.Context) ([]string, error) {
	return f.states, f.statesErr
}

func (f *fakeAPI) Events(_ context.Context, q api.EventQuery) ([]event.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.eventSkips)
	f.eventSkips = append(f.eventSkips, q.Page.Skip)
	if f.eventsErr != nil && idx == len(f.eventPages)-1 {
		return nil, f.eventsErr
	}
	if idx >= len(f.eventPages) {
		return nil, nil
	}
	return f.eventPages[idx], nil
}

func (f *fakeAPI) Event(_ context.Context, id int64) (event.Event, error) {
	return event.Event{ID: id, Title: "Single"}, nil
}

func (f *fakeAPI) DonorProfile(_ context.Context) (donor.Profile, error) {
	return f.donorProfile, f.profileErr
}

func (f *fakeAPI) MyDonations(_ context.Context) ([]donation.Donation, error) {
	return f.donations, f.donationsErr
}

func (f *fakeAPI) MyCertificates(_ context.Context) ([]certificate.Certificate, error) {
	return f.certificates, f.certificatesErr
}

func (f *fakeAPI) OrganizerProfile(_ context.Context) (organizer.Profile, error) {
	return f.organizerProfile, f.profileErr
}

func (f *fakeAPI) MyEvents(_ context.Context) ([]event.Event, error) {
	return f.myEvents, nil
}

func (f *fakeAPI) Donations(_ context.Context, _ api.Page) ([]donation.Donation, error) {
	return f.donations, f.donationsErr
}

func (f *fakeAPI) Certificates(_ context.Context, _ api.Page) ([]certificate.Certificate, error) {
	return f.certificates, f.certificatesErr
}

func makeEvents(n, offset int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		out[i] = event.Event{ID: int64(offset + i + 1)}
	}
	return out
}
