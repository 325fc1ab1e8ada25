package orchestrators

import (
	"context"
	"log/slog"

	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/organizer"
)

// --- Update Donor Profile ---

// UpdateDonorProfileInput carries the edited donor form.
type UpdateDonorProfileInput struct {
	Form donor.UpdateForm
}

// UpdateDonorProfileDeps holds dependencies for UpdateDonorProfile.
type UpdateDonorProfileDeps struct {
	API DonorProfileAPI
}

// ExecuteUpdateDonorProfile saves the form with a single PUT.
// The caller reloads the canonical record by redirecting to the dashboard.
// PRE: deps.API is authenticated as a donor
// POST: Returned profile is the server's response, not the submitted form
func ExecuteUpdateDonorProfile(ctx context.Context, input UpdateDonorProfileInput, deps UpdateDonorProfileDeps) (donor.Profile, error) {
	p, err := deps.API.UpdateDonorProfile(ctx, input.Form.Payload())
	if err != nil {
		return donor.Profile{}, err
	}
	slog.Info("profile_event", "event", "donor_profile_updated", "donor_id", p.ID)
	return p, nil
}

// --- Update Organizer Profile ---

// UpdateOrganizerProfileInput carries the edited organizer form.
type UpdateOrganizerProfileInput struct {
	Form organizer.UpdateForm
}

// UpdateOrganizerProfileDeps holds dependencies for UpdateOrganizerProfile.
type UpdateOrganizerProfileDeps struct {
	API OrganizerProfileAPI
}

// ExecuteUpdateOrganizerProfile saves the form with a single PUT.
// PRE: deps.API is authenticated as an organizer
func ExecuteUpdateOrganizerProfile(ctx context.Context, input UpdateOrganizerProfileInput, deps UpdateOrganizerProfileDeps) (organizer.Profile, error) {
	p, err := deps.API.UpdateOrganizerProfile(ctx, input.Form.Payload())
	if err != nil {
		return organizer.Profile{}, err
	}
	slog.Info("profile_event", "event", "organizer_profile_updated", "organizer_id", p.ID)
	return p, nil
}
