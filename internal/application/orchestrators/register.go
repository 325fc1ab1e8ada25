package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/guard"
	"redconnect/internal/domain/organizer"
)

// RegisterDeps holds dependencies for both registration orchestrators.
type RegisterDeps struct {
	API      AuthAPI
	Sessions SessionWriter
}

// --- Register Donor ---

// RegisterDonorInput carries the donor sign-up form.
type RegisterDonorInput struct {
	ClientID string
	Form     donor.RegistrationForm
}

// ExecuteRegisterDonor validates the form locally, registers and signs the donor in.
// PRE: none
// POST: On validation failure no network call is made
// POST: On success the session is persisted and the result points at the donor dashboard
func ExecuteRegisterDonor(ctx context.Context, input RegisterDonorInput, deps RegisterDeps) (LoginResult, error) {
	if err := input.Form.Validate(); err != nil {
		return LoginResult{}, err
	}
	tok, err := deps.API.DonorRegister(ctx, input.Form.Payload())
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "area", guard.AreaDonor, "status", api.StatusOf(err))
		return LoginResult{}, err
	}
	sess, err := persistToken(ctx, input.ClientID, tok, guard.AreaDonor, strings.TrimSpace(input.Form.Email), deps.Sessions)
	if err != nil {
		return LoginResult{}, err
	}
	slog.Info("auth_event", "event", "register_success", "role", sess.Role, "user_id", sess.UserID)
	return LoginResult{Session: sess, Location: guard.DashboardPath(guard.AreaDonor)}, nil
}

// --- Register Organizer ---

// RegisterOrganizerInput carries the organizer sign-up form.
type RegisterOrganizerInput struct {
	ClientID string
	Form     organizer.RegistrationForm
}

// ExecuteRegisterOrganizer validates the form locally, registers and signs the organizer in.
// POST: On validation failure no network call is made
func ExecuteRegisterOrganizer(ctx context.Context, input RegisterOrganizerInput, deps RegisterDeps) (LoginResult, error) {
	if err := input.Form.Validate(); err != nil {
		return LoginResult{}, err
	}
	tok, err := deps.API.OrganizerRegister(ctx, input.Form.Payload())
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "area", guard.AreaOrganizer, "status", api.StatusOf(err))
		return LoginResult{}, err
	}
	sess, err := persistToken(ctx, input.ClientID, tok, guard.AreaOrganizer, strings.TrimSpace(input.Form.Email), deps.Sessions)
	if err != nil {
		return LoginResult{}, err
	}
	slog.Info("auth_event", "event", "register_success", "role", sess.Role, "user_id", sess.UserID)
	return LoginResult{Session: sess, Location: guard.DashboardPath(guard.AreaOrganizer)}, nil
}
