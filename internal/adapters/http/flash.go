package web

import (
	"log/slog"
	"net/http"

	"redconnect/internal/domain/guard"
)

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const flashCookieName = "redconnect_flash"

// Flash is a one-shot toast carried across a redirect.
type Flash struct {
	Kind    string `json:"k"`
	Title   string `json:"t"`
	Message string `json:"m"`
}

func success(title, msg string) *Flash { return &Flash{Kind: FlashSuccess, Title: title, Message: msg} }
func failure(title, msg string) *Flash { return &Flash{Kind: FlashError, Title: title, Message: msg} }

// setFlash stores f in a signed, encrypted cookie read by the next page render.
func (s *Server) setFlash(w http.ResponseWriter, f Flash) {
	value, err := s.cookies.Encode(flashCookieName, f)
	if err != nil {
		slog.Error("flash_encode_failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending toast. Returns nil when there is none.
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	var f Flash
	if err := s.cookies.Decode(flashCookieName, cookie.Value, &f); err != nil {
		return nil
	}
	return &f
}

// redirect sends the browser to location with an optional toast.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, location string, f *Flash) {
	if f != nil {
		s.setFlash(w, *f)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// follow applies a guard decision. Returns true when the browser was redirected
// and the caller must stop.
func (s *Server) follow(w http.ResponseWriter, r *http.Request, d guard.Decision) bool {
	if d.Action == guard.Proceed {
		return false
	}
	var f *Flash
	if d.Notice != nil {
		kind := FlashError
		if d.Action == guard.Redirect {
			kind = FlashInfo
		}
		f = &Flash{Kind: kind, Title: d.Notice.Title, Message: d.Notice.Description}
	}
	slog.Info("guard_event", "event", d.Action.String(), "path", r.URL.Path, "location", d.Location)
	s.redirect(w, r, d.Location, f)
	return true
}
