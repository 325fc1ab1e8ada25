package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"redconnect/internal/adapters/api"
	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/listutil"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/application/projections"
	"redconnect/internal/domain/bloodbank"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/guard"
)

// perfWindow is how far back /healthz aggregates timing samples.
const perfWindow = 15 * time.Minute

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, http.StatusOK, "home.html", nil)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, http.StatusNotFound, "not_found.html", map[string]string{"Path": r.URL.Path})
}

// handleHealth reports liveness plus the recent timing summary.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "api": s.deps.API.BaseURL()}
	if s.deps.Collector != nil {
		body["perf"] = s.deps.Collector.Report(time.Now().Add(-perfWindow), 5)
	}
	writeJSON(w, http.StatusOK, body)
}

// --- Blood Bank Directory ---

type bloodBanksPage struct {
	projections.BloodBanksResult
	Error string
}

// PageURL links to page n keeping the current filter.
func (p bloodBanksPage) PageURL(n int) string {
	q := p.Filter.ServerParams()
	q.Set("page", strconv.Itoa(n))
	return "/blood-banks?" + q.Encode()
}

// handleBloodBanks lists the directory five rows at a time.
// Changing either filter starts again at page 1 because the filter form omits the page.
func (s *Server) handleBloodBanks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.BloodBanksQuery{
		Filter: bloodbank.NewFilter(q.Get("state"), q.Get("blood_type")),
		Page:   listutil.ParsePage(q),
	}
	res, err := projections.QueryBloodBanks(r.Context(), query, projections.BloodBanksDeps{API: s.apiFor(r)})
	page := bloodBanksPage{BloodBanksResult: res}
	if err != nil {
		page.Error = "Failed to load blood banks"
	}
	s.renderTemplate(w, r, http.StatusOK, "blood_banks.html", page)
}

// --- Events ---

type eventsPage struct {
	Events []event.Event
	Error  string
}

// handleEvents shows every event, fetched in chunks until the server runs out.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := projections.QueryAllEvents(r.Context(), projections.AllEventsDeps{API: s.apiFor(r)})
	page := eventsPage{Events: events}
	if err != nil {
		page = eventsPage{Error: "Failed to load events"}
	}
	s.renderTemplate(w, r, http.StatusOK, "events.html", page)
}

type eventDetailPage struct {
	Event event.Event
	Error string
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return
	}
	e, err := projections.QueryEvent(r.Context(), projections.EventQuery{ID: id}, projections.AllEventsDeps{API: s.apiFor(r)})
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			s.handleNotFound(w, r)
			return
		}
		s.renderTemplate(w, r, http.StatusOK, "event_detail.html", eventDetailPage{Error: userMessage(err)})
		return
	}
	s.renderTemplate(w, r, http.StatusOK, "event_detail.html", eventDetailPage{Event: e})
}

// handleJoinEvent registers the browser's account for an event.
// Without a token the browser is sent to donor login; the server decides everything else.
func (s *Server) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return
	}
	next := safeNext(r.PostFormValue("next"), "/events/"+strconv.FormatInt(id, 10))

	res, err := orchestrators.ExecuteJoinEvent(r.Context(), orchestrators.JoinEventInput{
		Session: middleware.SessionFromContext(r.Context()),
		EventID: id,
	}, orchestrators.EventDeps{API: s.apiFor(r)})
	switch {
	case errors.Is(err, event.ErrLoginRequired):
		s.redirect(w, r, guard.LoginPath(guard.AreaDonor), failure("Login Required", "Please log in to join events"))
	case err != nil:
		s.redirect(w, r, next, failure("Registration Failed", userMessage(err)))
	default:
		s.redirect(w, r, next, success("Registration Successful", res.Message))
	}
}
