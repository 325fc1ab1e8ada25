package projections

import (
	"context"
	"sync"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/donation"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/organizer"
)

// adminPage is the widest page the server allows for organizer-wide lists.
var adminPage = api.Page{Skip: 0, Limit: 100}

// Section holds one independently fetched part of a dashboard.
type Section[T any] struct {
	Data T
	Err  error
}

// fetch runs f in its own goroutine and stores the outcome in s.
func fetch[T any](wg *sync.WaitGroup, s *Section[T], f func() (T, error)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Data, s.Err = f()
	}()
}

// --- Donor Dashboard ---

// DonorDashboardResult carries every donor dashboard section.
// Each section is written only by its own fetch, so one failure never blanks another.
type DonorDashboardResult struct {
	Profile      Section[donor.Profile]
	Donations    Section[[]donation.Donation]
	Certificates Section[[]certificate.Certificate]
}

// DonorDashboardDeps holds dependencies for QueryDonorDashboard.
type DonorDashboardDeps struct {
	API DonorDashboardAPI
}

// QueryDonorDashboard fetches profile, donations and certificates concurrently.
// PRE: deps.API is authenticated as a donor
func QueryDonorDashboard(ctx context.Context, deps DonorDashboardDeps) DonorDashboardResult {
	var (
		wg  sync.WaitGroup
		res DonorDashboardResult
	)
	fetch(&wg, &res.Profile, func() (donor.Profile, error) { return deps.API.DonorProfile(ctx) })
	fetch(&wg, &res.Donations, func() ([]donation.Donation, error) { return deps.API.MyDonations(ctx) })
	fetch(&wg, &res.Certificates, func() ([]certificate.Certificate, error) { return deps.API.MyCertificates(ctx) })
	wg.Wait()
	return res
}

// --- Organizer Dashboard ---

// OrganizerDashboardResult carries every organizer dashboard section plus the
// completed donations still awaiting a certificate.
type OrganizerDashboardResult struct {
	Profile      Section[organizer.Profile]
	Events       Section[[]event.Event]
	Donations    Section[[]donation.Donation]
	Certificates Section[[]certificate.Certificate]
	Awaiting     []donation.Donation
}

// OrganizerDashboardDeps holds dependencies for QueryOrganizerDashboard.
type OrganizerDashboardDeps struct {
	API OrganizerDashboardAPI
}

// QueryOrganizerDashboard fetches profile, own events, donations and certificates concurrently.
// Awaiting is derived only when both donations and certificates loaded.
// PRE: deps.API is authenticated as an organizer
func QueryOrganizerDashboard(ctx context.Context, deps OrganizerDashboardDeps) OrganizerDashboardResult {
	var (
		wg  sync.WaitGroup
		res OrganizerDashboardResult
	)
	fetch(&wg, &res.Profile, func() (organizer.Profile, error) { return deps.API.OrganizerProfile(ctx) })
	fetch(&wg, &res.Events, func() ([]event.Event, error) { return deps.API.MyEvents(ctx) })
	fetch(&wg, &res.Donations, func() ([]donation.Donation, error) { return deps.API.Donations(ctx, adminPage) })
	fetch(&wg, &res.Certificates, func() ([]certificate.Certificate, error) { return deps.API.Certificates(ctx, adminPage) })
	wg.Wait()

	if res.Donations.Err == nil && res.Certificates.Err == nil {
		res.Awaiting = certificate.AwaitingCertificate(res.Donations.Data, res.Certificates.Data)
	}
	return res
}
