package orchestrators

import (
	"context"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/chat"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/organizer"
	domainSession "redconnect/internal/domain/session"
)

// SessionWriter persists or clears a browser's session.
type SessionWriter interface {
	Save(ctx context.Context, clientID string, sess domainSession.Session) error
	Clear(ctx context.Context, clientID string) error
}

// ConversationResetter forgets a browser's chat history.
type ConversationResetter interface {
	Reset(clientID string)
}

// AuthAPI covers the remote login and registration endpoints.
type AuthAPI interface {
	DonorLogin(ctx context.Context, email, password string) (api.Token, error)
	OrganizerLogin(ctx context.Context, email, password string) (api.Token, error)
	DonorRegister(ctx context.Context, payload map[string]any) (api.Token, error)
	OrganizerRegister(ctx context.Context, payload map[string]any) (api.Token, error)
}

// DonorProfileAPI covers the donor profile endpoints.
type DonorProfileAPI interface {
	UpdateDonorProfile(ctx context.Context, payload map[string]any) (donor.Profile, error)
}

// OrganizerProfileAPI covers the organizer profile endpoints.
type OrganizerProfileAPI interface {
	UpdateOrganizerProfile(ctx context.Context, payload map[string]any) (organizer.Profile, error)
}

// EventAPI covers event management and registration.
type EventAPI interface {
	CreateEvent(ctx context.Context, payload map[string]any) (event.Event, error)
	UpdateEvent(ctx context.Context, id int64, payload map[string]any) (event.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	RegisterForEvent(ctx context.Context, id int64) (api.RegisterResult, error)
}

// CertificateAPI covers certificate issuance.
type CertificateAPI interface {
	IssueCertificate(ctx context.Context, payload map[string]any) (certificate.Certificate, error)
}

// Compile-time check that the gateway satisfies every narrow interface.
var (
	_ AuthAPI              = (*api.Client)(nil)
	_ DonorProfileAPI      = (*api.Client)(nil)
	_ OrganizerProfileAPI  = (*api.Client)(nil)
	_ EventAPI             = (*api.Client)(nil)
	_ CertificateAPI       = (*api.Client)(nil)
	_ ConversationResetter = (*chat.Registry)(nil)
)
