package web

import (
	"fmt"
	"net/http"
	"strconv"

	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/application/projections"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/guard"
	"redconnect/internal/domain/organizer"
)

// eventFormView is the create or edit form shown on the events tab.
type eventFormView struct {
	EventID int64 // 0 when creating
	Form    event.Form
}

// Action is where the form posts.
func (v eventFormView) Action() string {
	if v.EventID == 0 {
		return "/organizer-dashboard/events"
	}
	return fmt.Sprintf("/organizer-dashboard/events/%d", v.EventID)
}

type organizerDashboardPage struct {
	Tab         string
	Editing     bool
	ProfileForm organizer.UpdateForm
	EventForm   *eventFormView
	IssueForm   *certificate.IssueForm
	BloodTypes  []string
	projections.OrganizerDashboardResult
}

// organizerView carries what a re-rendered dashboard must show instead of the query defaults.
type organizerView struct {
	Tab       string
	EventForm *eventFormView
	IssueForm *certificate.IssueForm
	Flash     *Flash
}

// handleOrganizerDashboard renders profile, own events and certificate management.
// ?event=new or ?event=<id> opens the event form; ?issue=<donation id> opens the issue form.
func (s *Server) handleOrganizerDashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if s.follow(w, r, guard.ProtectRender(sess, guard.AreaOrganizer)) {
		return
	}
	q := r.URL.Query()
	view := organizerView{Tab: pickTab(q.Get("tab"), tabProfile, tabEvents, tabCertificates)}
	if ev := q.Get("event"); ev == "new" {
		view.EventForm = &eventFormView{}
	} else if id, err := strconv.ParseInt(ev, 10, 64); err == nil && id > 0 {
		view.EventForm = &eventFormView{EventID: id}
	}
	if id := q.Get("issue"); id != "" {
		view.IssueForm = &certificate.IssueForm{DonationID: id}
	}
	s.renderOrganizerDashboard(w, r, q.Get("edit") == "1", view)
}

func (s *Server) renderOrganizerDashboard(w http.ResponseWriter, r *http.Request, editing bool, view organizerView) {
	res := projections.QueryOrganizerDashboard(r.Context(), projections.OrganizerDashboardDeps{API: s.apiFor(r)})

	// An edit form opened by id is seeded from the organizer's own events.
	if view.EventForm != nil && view.EventForm.EventID != 0 && view.EventForm.Form == (event.Form{}) {
		for _, e := range res.Events.Data {
			if e.ID == view.EventForm.EventID {
				view.EventForm.Form = event.FormFromEvent(e)
				break
			}
		}
	}
	// Preselecting a donation carries its blood type into the issue form.
	if view.IssueForm != nil && view.IssueForm.BloodType == "" {
		for _, d := range res.Awaiting {
			if strconv.FormatInt(d.ID, 10) == view.IssueForm.DonationID {
				view.IssueForm.BloodType = d.BloodType
				view.IssueForm.BloodUnits = formatUnits(d.Units)
				break
			}
		}
	}

	page := organizerDashboardPage{
		Tab:                      view.Tab,
		Editing:                  editing && res.Profile.Err == nil,
		ProfileForm:              organizer.FormFromProfile(res.Profile.Data),
		EventForm:                view.EventForm,
		IssueForm:                view.IssueForm,
		BloodTypes:               donor.BloodTypes,
		OrganizerDashboardResult: res,
	}
	s.renderWithFlash(w, r, http.StatusOK, "organizer_dashboard.html", page, view.Flash)
}

// requireOrganizer guards organizer form posts. Returns false when the browser was redirected.
func (s *Server) requireOrganizer(w http.ResponseWriter, r *http.Request) bool {
	return !s.follow(w, r, guard.ProtectRender(middleware.SessionFromContext(r.Context()), guard.AreaOrganizer))
}

// --- Profile ---

func organizerUpdateForm(r *http.Request) organizer.UpdateForm {
	return organizer.UpdateForm{
		OrganizationName: form(r, "organization_name"),
		ContactPerson:    form(r, "contact_person"),
		Phone:            form(r, "phone"),
		Address:          form(r, "address"),
		City:             form(r, "city"),
		State:            form(r, "state"),
		Pincode:          form(r, "pincode"),
		Website:          form(r, "website"),
		Description:      form(r, "description"),
	}
}

func (s *Server) handleOrganizerProfileSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireOrganizer(w, r) {
		return
	}
	_, err := orchestrators.ExecuteUpdateOrganizerProfile(r.Context(), orchestrators.UpdateOrganizerProfileInput{
		Form: organizerUpdateForm(r),
	}, orchestrators.UpdateOrganizerProfileDeps{API: s.apiFor(r)})
	if err != nil {
		s.redirect(w, r, "/organizer-dashboard?tab=profile&edit=1", failure("Update Failed", userMessage(err)))
		return
	}
	s.redirect(w, r, "/organizer-dashboard?tab=profile", success("Profile Updated", "Your profile has been updated successfully"))
}

// --- Events ---

func eventForm(r *http.Request) event.Form {
	return event.Form{
		Title:           form(r, "title"),
		Description:     form(r, "description"),
		EventDate:       form(r, "event_date"),
		StartTime:       form(r, "start_time"),
		EndTime:         form(r, "end_time"),
		Venue:           form(r, "venue"),
		City:            form(r, "city"),
		State:           form(r, "state"),
		MaxParticipants: form(r, "max_participants"),
	}
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireOrganizer(w, r) {
		return
	}
	f := eventForm(r)
	_, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{Form: f},
		orchestrators.EventDeps{API: s.apiFor(r)})
	if err != nil {
		s.renderOrganizerDashboard(w, r, false, organizerView{
			Tab:       tabEvents,
			EventForm: &eventFormView{Form: f},
			Flash:     failure("Could Not Create Event", userMessage(err)),
		})
		return
	}
	s.redirect(w, r, "/organizer-dashboard?tab=events", success("Event Created", "Event has been created successfully"))
}

func (s *Server) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireOrganizer(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return
	}
	f := eventForm(r)
	_, err = orchestrators.ExecuteUpdateEvent(r.Context(), orchestrators.UpdateEventInput{EventID: id, Form: f},
		orchestrators.EventDeps{API: s.apiFor(r)})
	if err != nil {
		s.renderOrganizerDashboard(w, r, false, organizerView{
			Tab:       tabEvents,
			EventForm: &eventFormView{EventID: id, Form: f},
			Flash:     failure("Could Not Update Event", userMessage(err)),
		})
		return
	}
	s.redirect(w, r, "/organizer-dashboard?tab=events", success("Event Updated", "Event has been updated successfully"))
}

func (s *Server) handleEventDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireOrganizer(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return
	}
	err = orchestrators.ExecuteDeleteEvent(r.Context(), orchestrators.DeleteEventInput{EventID: id},
		orchestrators.EventDeps{API: s.apiFor(r)})
	if err != nil {
		s.redirect(w, r, "/organizer-dashboard?tab=events", failure("Could Not Delete Event", userMessage(err)))
		return
	}
	s.redirect(w, r, "/organizer-dashboard?tab=events", success("Event Deleted", "Event has been deleted"))
}

// --- Certificates ---

func issueForm(r *http.Request) certificate.IssueForm {
	return certificate.IssueForm{
		DonationID: form(r, "donation_id"),
		BloodUnits: form(r, "blood_units"),
		BloodType:  form(r, "blood_type"),
		IssuedBy:   form(r, "issued_by"),
		Notes:      form(r, "notes"),
	}
}

func (s *Server) handleCertificateIssue(w http.ResponseWriter, r *http.Request) {
	if !s.requireOrganizer(w, r) {
		return
	}
	f := issueForm(r)
	cert, err := orchestrators.ExecuteIssueCertificate(r.Context(), orchestrators.IssueCertificateInput{Form: f},
		orchestrators.IssueCertificateDeps{API: s.apiFor(r)})
	if err != nil {
		s.renderOrganizerDashboard(w, r, false, organizerView{
			Tab:       tabCertificates,
			IssueForm: &f,
			Flash:     failure("Could Not Issue Certificate", userMessage(err)),
		})
		return
	}
	msg := "Certificate has been issued"
	if cert.CertificateNumber != "" {
		msg = "Certificate " + cert.CertificateNumber + " has been issued"
	}
	s.redirect(w, r, "/organizer-dashboard?tab=certificates", success("Certificate Issued", msg))
}
