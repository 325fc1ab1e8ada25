package orchestrators

import (
	"context"
	"errors"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/organizer"
	domainSession "redconnect/internal/domain/session"
)

// fakeAPI implements every narrow API interface and records call names.
type fakeAPI struct {
	calls    []string
	token    api.Token
	err      error
	payloads []map[string]any

	donorProfile     donor.Profile
	organizerProfile organizer.Profile
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token: api.Token{AccessToken: "tok", TokenType: "bearer", UserID: 42, Role: "donor"},
	}
}

func (f *fakeAPI) record(name string, payload map[string]any) error {
	f.calls = append(f.calls, name)
	if payload != nil {
		f.payloads = append(f.payloads, payload)
	}
	return f.err
}

func (f *fakeAPI) DonorLogin(_ context.Context, _, _ string) (api.Token, error) {
	return f.token, f.record("DonorLogin", nil)
}

func (f *fakeAPI) OrganizerLogin(_ context.Context, _, _ string) (api.Token, error) {
	return f.token, f.record("OrganizerLogin", nil)
}

func (f *fakeAPI) DonorRegister(_ context.Context, p map[string]any) (api.Token, error) {
	return f.token, f.record("DonorRegister", p)
}

func (f *fakeAPI) OrganizerRegister(_ context.Context, p map[string]any) (api.Token, error) {
	return f.token, f.record("OrganizerRegister", p)
}

func (f *fakeAPI) UpdateDonorProfile(_ context.Context, p map[string]any) (donor.Profile, error) {
	return f.donorProfile, f.record("UpdateDonorProfile", p)
}

func (f *fakeAPI) UpdateOrganizerProfile(_ context.Context, p map[string]any) (organizer.Profile, error) {
	return f.organizerProfile, f.record("UpdateOrganizerProfile", p)
}

func (f *fakeAPI) CreateEvent(_ context.Context, p map[string]any) (event.Event, error) {
	return event.Event{ID: 1, Title: p["title"].(string)}, f.record("CreateEvent", p)
}

func (f *fakeAPI) UpdateEvent(_ context.Context, id int64, p map[string]any) (event.Event, error) {
	return event.Event{ID: id}, f.record("UpdateEvent", p)
}

func (f *fakeAPI) DeleteEvent(_ context.Context, _ int64) error {
	return f.record("DeleteEvent", nil)
}

func (f *fakeAPI) RegisterForEvent(_ context.Context, id int64) (api.RegisterResult, error) {
	return api.RegisterResult{Message: "Successfully registered for event", EventID: id}, f.record("RegisterForEvent", nil)
}

func (f *fakeAPI) IssueCertificate(_ context.Context, p map[string]any) (certificate.Certificate, error) {
	return certificate.Certificate{ID: 5, DonationID: p["donation_id"].(int64)}, f.record("IssueCertificate", p)
}

// fakeSessions records saved and cleared sessions per client.
type fakeSessions struct {
	saved   map[string]domainSession.Session
	cleared []string
	err     error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{saved: make(map[string]domainSession.Session)}
}

func (f *fakeSessions) Save(_ context.Context, clientID string, s domainSession.Session) error {
	if f.err != nil {
		return f.err
	}
	f.saved[clientID] = s
	return nil
}

func (f *fakeSessions) Clear(_ context.Context, clientID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.saved, clientID)
	f.cleared = append(f.cleared, clientID)
	return nil
}

var errServer = &api.Error{Op: "login", Status: 401, Detail: "Incorrect email or password"}

var errBoom = errors.New("boom")
