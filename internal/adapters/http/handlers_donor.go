package web

import (
	"net/http"

	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/application/projections"
	"redconnect/internal/domain/donation"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/guard"
)

// Donor dashboard tabs
const (
	tabProfile      = "profile"
	tabDonations    = "donations"
	tabCertificates = "certificates"
	tabEvents       = "events"
)

type donorDashboardPage struct {
	Tab        string
	Editing    bool
	Form       donor.UpdateForm
	BloodTypes []string
	projections.DonorDashboardResult
}

// CompletedCount is the number of completed donations.
func (p donorDashboardPage) CompletedCount() int {
	return len(donation.Completed(p.Donations.Data))
}

// TotalUnits sums units over completed donations.
func (p donorDashboardPage) TotalUnits() float64 {
	return donation.TotalUnits(p.Donations.Data)
}

func pickTab(tab string, allowed ...string) string {
	for _, t := range allowed {
		if tab == t {
			return t
		}
	}
	return allowed[0]
}

// handleDonorDashboard renders the donor's profile, donation history and certificates.
// Each section loads independently; one failing section does not hide the others.
func (s *Server) handleDonorDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if s.follow(w, r, guard.ProtectRender(sess, guard.AreaDonor)) {
		return
	}
	q := r.URL.Query()
	res := projections.QueryDonorDashboard(r.Context(), projections.DonorDashboardDeps{API: s.apiFor(r)})
	page := donorDashboardPage{
		Tab:                  pickTab(q.Get("tab"), tabProfile, tabDonations, tabCertificates),
		Editing:              q.Get("edit") == "1" && res.Profile.Err == nil,
		Form:                 donor.FormFromProfile(res.Profile.Data),
		BloodTypes:           donor.BloodTypes,
		DonorDashboardResult: res,
	}
	s.renderTemplate(w, r, http.StatusOK, "donor_dashboard.html", page)
}

func donorUpdateForm(r *http.Request) donor.UpdateForm {
	return donor.UpdateForm{
		FullName:          form(r, "full_name"),
		Phone:             form(r, "phone"),
		DateOfBirth:       form(r, "date_of_birth"),
		BloodType:         form(r, "blood_type"),
		Address:           form(r, "address"),
		City:              form(r, "city"),
		State:             form(r, "state"),
		Pincode:           form(r, "pincode"),
		Weight:            form(r, "weight"),
		MedicalConditions: form(r, "medical_conditions"),
		EmergencyContact:  form(r, "emergency_contact"),
	}
}

func (s *Server) handleDonorProfileSave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if s.follow(w, r, guard.ProtectRender(sess, guard.AreaDonor)) {
		return
	}
	_, err := orchestrators.ExecuteUpdateDonorProfile(r.Context(), orchestrators.UpdateDonorProfileInput{
		Form: donorUpdateForm(r),
	}, orchestrators.UpdateDonorProfileDeps{API: s.apiFor(r)})
	if err != nil {
		s.redirect(w, r, "/donor-dashboard?tab=profile&edit=1", failure("Update Failed", userMessage(err)))
		return
	}
	s.redirect(w, r, "/donor-dashboard?tab=profile", success("Profile Updated", "Your profile has been updated successfully"))
}
