package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	domainSession "redconnect/internal/domain/session"
)

// TestDashboards_Guard verifies the render guard for both dashboards.
func TestDashboards_Guard(t *testing.T) {
	tests := []struct {
		name      string
		sess      *domainSession.Session
		path      string
		want      string
		wantTitle string
	}{
		{"logged out donor dashboard", nil, "/donor-dashboard", "/donor-login", "Not Logged In"},
		{"logged out organizer dashboard", nil, "/organizer-dashboard", "/organizer-login", "Not Logged In"},
		{"organizer on donor dashboard", ptr(organizerSession()), "/donor-dashboard", "/organizer-dashboard", "Access Denied"},
		{"donor on organizer dashboard", ptr(donorSession()), "/organizer-dashboard", "/donor-dashboard", "Access Denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.sess != nil {
				env.login(t, *tt.sess)
			}
			rr := env.do(t, "GET", tt.path, nil)
			assertRedirect(t, rr, tt.want)
			if f := env.flash(t, rr); f == nil || f.Title != tt.wantTitle {
				t.Errorf("toast = %+v, want title %q", f, tt.wantTitle)
			}
			if env.remote.total() != 0 {
				t.Errorf("guarded page made %d remote calls", env.remote.total())
			}
		})
	}
}

// TestDonorDashboard_SectionsAreIndependent verifies one failed section leaves the others intact.
func TestDonorDashboard_SectionsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, donorSession())
	env.remote.json("GET /api/donors/me", http.StatusOK, map[string]any{"id": 1, "full_name": "Asha Rao", "blood_type": "O+"})
	env.remote.json("GET /api/donations/my-donations", http.StatusInternalServerError, map[string]any{})
	env.remote.json("GET /api/certificates/my-certificates", http.StatusOK, []map[string]any{
		{"id": 1, "donation_id": 3, "certificate_number": "CERT-001", "blood_units": 1, "status": "issued", "certificate_url": "https://files.example/c1.pdf"},
		{"id": 2, "donation_id": 4, "certificate_number": "CERT-002", "blood_units": 1, "status": "pending"},
	})

	rr := env.do(t, "GET", "/donor-dashboard", nil)
	assertContains(t, rr, "Asha Rao")

	rr = env.do(t, "GET", "/donor-dashboard?tab=donations", nil)
	assertContains(t, rr, "Failed to get donations")

	rr = env.do(t, "GET", "/donor-dashboard?tab=certificates", nil)
	assertContains(t, rr, "CERT-001", "https://files.example/c1.pdf", "CERT-002", "Certificate file not yet available")

	for _, c := range env.remote.called("GET /api/donors/me") {
		if c.Auth != "Bearer donor-token" {
			t.Errorf("dashboard call without donor token: %q", c.Auth)
		}
	}
}

// TestDonorDashboard_CountsCompletedOnly verifies the stats use completed donations.
func TestDonorDashboard_CountsCompletedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, donorSession())
	env.remote.json("GET /api/donors/me", http.StatusOK, map[string]any{"id": 1})
	env.remote.json("GET /api/donations/my-donations", http.StatusOK, []map[string]any{
		{"id": 1, "units": 1, "status": "Completed"},
		{"id": 2, "units": 1.5, "status": "completed"},
		{"id": 3, "units": 2, "status": "pending"},
	})
	env.remote.json("GET /api/certificates/my-certificates", http.StatusOK, []map[string]any{})

	rr := env.do(t, "GET", "/donor-dashboard?tab=donations", nil)
	assertContains(t, rr, `data-testid="total-donations">2<`, "<strong>2.5</strong> units donated")
}

// TestDonorProfileSave_PutsThenRedirects verifies the update is sent with the donor token.
func TestDonorProfileSave_PutsThenRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, donorSession())
	env.remote.json("PUT /api/donors/me", http.StatusOK, map[string]any{"id": 1})
	env.remote.json("GET /api/donors/me", http.StatusOK, map[string]any{"id": 1, "city": "Pune"})

	rr := env.do(t, "POST", "/donor-dashboard/profile", url.Values{"city": {"Pune"}, "phone": {""}})

	assertRedirect(t, rr, "/donor-dashboard?tab=profile")
	put := env.remote.called("PUT /api/donors/me")
	if len(put) != 1 || put[0].Body["city"] != "Pune" {
		t.Fatalf("unexpected update call %+v", put)
	}
	if _, sent := put[0].Body["phone"]; sent {
		t.Error("blank fields must be left out of the update")
	}
	if n := env.remote.total(); n != 1 {
		t.Errorf("save made %d remote calls, want 1", n)
	}
}

// TestDonorProfileSave_RedirectReloadsOnce verifies the dashboard after a save reads the profile exactly once.
func TestDonorProfileSave_RedirectReloadsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, donorSession())
	env.remote.json("PUT /api/donors/me", http.StatusOK, map[string]any{"id": 1})
	env.remote.json("GET /api/donors/me", http.StatusOK, map[string]any{"id": 1, "full_name": "Asha Rao", "city": "Pune"})

	env.do(t, "POST", "/donor-dashboard/profile", url.Values{"city": {"Pune"}})
	rr := env.do(t, "GET", "/donor-dashboard?tab=profile", nil)

	assertContains(t, rr, "Asha Rao", "Pune")
	if n := len(env.remote.called("GET /api/donors/me")); n != 1 {
		t.Errorf("profile fetched %d times, want 1", n)
	}
}

func organizerRemote(env *testEnv) {
	env.remote.json("GET /api/organizers/me", http.StatusOK, map[string]any{"id": 2, "organization_name": "Lifeline"})
	env.remote.json("GET /api/events/my-events", http.StatusOK, []map[string]any{
		{"id": 8, "title": "Harbour Drive", "event_date": "2026-12-01", "venue": "Dock", "city": "Kochi", "state": "Kerala", "max_participants": 40},
	})
	env.remote.json("GET /api/donations/", http.StatusOK, []map[string]any{
		{"id": 1, "donor_id": 5, "status": "completed", "blood_type": "A+", "units": 1},
		{"id": 2, "donor_id": 6, "status": "COMPLETED", "blood_type": "B-", "units": 2},
		{"id": 3, "donor_id": 7, "status": "scheduled", "blood_type": "O+", "units": 1},
	})
	env.remote.json("GET /api/certificates/", http.StatusOK, []map[string]any{
		{"id": 10, "donation_id": 1, "certificate_number": "CERT-010", "status": "issued"},
	})
}

// TestOrganizerDashboard_AwaitingCertificates verifies only completed donations without a certificate are offered.
func TestOrganizerDashboard_AwaitingCertificates(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	organizerRemote(env)

	rr := env.do(t, "GET", "/organizer-dashboard?tab=certificates&issue=2", nil)
	body := rr.Body.String()
	if !strings.Contains(body, "issue=2") || strings.Contains(body, "issue=1\"") || strings.Contains(body, "issue=3") {
		t.Errorf("awaiting list should offer only donation 2:\n%s", body)
	}
	assertContains(t, rr, "Issue Certificate for Donation #2", `<option value="B-" selected>`, "CERT-010")

	for _, route := range []string{"GET /api/donations/", "GET /api/certificates/"} {
		calls := env.remote.called(route)
		if len(calls) != 1 || calls[0].Query.Get("limit") != "100" {
			t.Errorf("%s: expected limit=100, got %+v", route, calls)
		}
	}
}

// TestOrganizerDashboard_EditFormSeeded verifies ?event=<id> opens the form with the event's values.
func TestOrganizerDashboard_EditFormSeeded(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	organizerRemote(env)

	rr := env.do(t, "GET", "/organizer-dashboard?tab=events&event=8", nil)
	assertContains(t, rr, "Edit Event", `action="/organizer-dashboard/events/8"`, `value="Harbour Drive"`, `value="40"`)
}

// TestEventCreate_ValidationKeepsForm verifies a missing field re-renders without a network write.
func TestEventCreate_ValidationKeepsForm(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	organizerRemote(env)

	rr := env.do(t, "POST", "/organizer-dashboard/events", url.Values{"title": {"Night Drive"}, "venue": {"Hall"}})

	assertContains(t, rr, "Could Not Create Event", "Please fill in all required fields", `value="Night Drive"`)
	if len(env.remote.called("POST /api/events/")) != 0 {
		t.Error("invalid form must not be posted")
	}
}

// TestEventCreate_DefaultsCapacity verifies a blank capacity is sent as 100 in a single request.
func TestEventCreate_DefaultsCapacity(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	organizerRemote(env)
	env.remote.json("POST /api/events/", http.StatusOK, map[string]any{"id": 9, "title": "Night Drive"})

	rr := env.do(t, "POST", "/organizer-dashboard/events", url.Values{
		"title": {"Night Drive"}, "event_date": {"2026-12-24"}, "venue": {"Hall"}, "city": {"Pune"}, "state": {"MH"},
	})

	assertRedirect(t, rr, "/organizer-dashboard?tab=events")
	post := env.remote.called("POST /api/events/")
	if len(post) != 1 || post[0].Body["max_participants"] != float64(100) {
		t.Fatalf("unexpected create call %+v", post)
	}
	if n := env.remote.total(); n != 1 {
		t.Errorf("create made %d remote calls, want 1; the redirect reloads the list", n)
	}
	if f := env.flash(t, rr); f == nil || f.Title != "Event Created" {
		t.Errorf("unexpected toast %+v", f)
	}
}

// TestEventDelete_SingleRequest verifies delete sends only the DELETE and reports success.
func TestEventDelete_SingleRequest(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	env.remote.on("DELETE /api/events/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := env.do(t, "POST", "/organizer-dashboard/events/8/delete", url.Values{})

	assertRedirect(t, rr, "/organizer-dashboard?tab=events")
	if f := env.flash(t, rr); f == nil || f.Title != "Event Deleted" || f.Kind != FlashSuccess {
		t.Errorf("unexpected toast %+v", f)
	}
	if n := env.remote.total(); n != 1 {
		t.Errorf("delete made %d remote calls, want 1", n)
	}
}

// TestEventUpdate_DonorIsDenied verifies organizer posts are guarded too.
func TestEventUpdate_DonorIsDenied(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, donorSession())

	rr := env.do(t, "POST", "/organizer-dashboard/events/8", url.Values{"title": {"x"}})

	assertRedirect(t, rr, "/donor-dashboard")
	if env.remote.total() != 0 {
		t.Errorf("expected no remote calls, got %d", env.remote.total())
	}
}

// TestCertificateIssue_InvalidUnits verifies units are checked before posting.
func TestCertificateIssue_InvalidUnits(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	organizerRemote(env)

	rr := env.do(t, "POST", "/organizer-dashboard/certificates", url.Values{
		"donation_id": {"2"}, "blood_units": {"-1"}, "blood_type": {"B-"}, "issued_by": {"Dr. Iyer"},
	})

	assertContains(t, rr, "Blood units must be a positive number", `value="Dr. Iyer"`)
	if len(env.remote.called("POST /api/certificates/")) != 0 {
		t.Error("invalid form must not be posted")
	}
}

// TestCertificateIssue_Success verifies the issue body and the toast.
func TestCertificateIssue_Success(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, organizerSession())
	env.remote.json("POST /api/certificates/", http.StatusOK, map[string]any{"id": 11, "donation_id": 2, "certificate_number": "CERT-011"})

	rr := env.do(t, "POST", "/organizer-dashboard/certificates", url.Values{
		"donation_id": {"2"}, "blood_units": {"2"}, "blood_type": {"B-"}, "issued_by": {"Dr. Iyer"},
	})

	assertRedirect(t, rr, "/organizer-dashboard?tab=certificates")
	body := env.remote.called("POST /api/certificates/")[0].Body
	if body["donation_id"] != float64(2) || body["blood_units"] != float64(2) || body["notes"] != nil {
		t.Errorf("unexpected issue body %v", body)
	}
	if f := env.flash(t, rr); f == nil || f.Message != "Certificate CERT-011 has been issued" {
		t.Errorf("unexpected toast %+v", f)
	}
}
