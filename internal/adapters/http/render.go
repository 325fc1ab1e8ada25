package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/csrf"

	"redconnect/internal/adapters/api"
	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/domain/certificate"
	"redconnect/internal/domain/chat"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/event"
	"redconnect/internal/domain/guard"
	"redconnect/internal/domain/organizer"
)

//go:embed templates/*.html
var templateFS embed.FS

// genericFailure is shown for errors that carry no user-facing text.
const genericFailure = "Something went wrong. Please try again."

// userErrors are local validation failures whose text is safe to show as-is.
var userErrors = []error{
	orchestrators.ErrMissingCredentials,
	orchestrators.ErrSupportUnavailable,
	donor.ErrMissingRequired,
	donor.ErrPasswordMismatch,
	donor.ErrPasswordTooShort,
	donor.ErrInvalidBloodType,
	organizer.ErrMissingRequired,
	organizer.ErrPasswordMismatch,
	organizer.ErrPasswordTooShort,
	event.ErrMissingRequired,
	event.ErrLoginRequired,
	certificate.ErrMissingRequired,
	certificate.ErrInvalidUnits,
	certificate.ErrNoDonation,
	chat.ErrEmptyMessage,
	chat.ErrNothingToSend,
	chat.ErrTranscriptSent,
	chat.ErrInvalidReplyTo,
	guard.ErrUnknownArea,
}

// userMessage turns err into the sentence shown in a notification.
// Remote errors show the server detail or the "Failed to ..." fallback; anything
// unexpected is logged and replaced by a generic message.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return sentence(apiErr.Error())
	}
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return sentence(known.Error())
		}
	}
	slog.Error("internal_error", "error", err.Error())
	return genericFailure
}

// sentence capitalises the first letter.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// renderTemplate renders a page inside layout.html with the flash taken from the cookie.
func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.renderWithFlash(w, r, status, name, data, nil)
}

// renderWithFlash renders a page with an explicit notification, used when a form is
// re-displayed in place instead of redirecting. A nil flash falls back to the cookie.
func (s *Server) renderWithFlash(w http.ResponseWriter, r *http.Request, status int, name string, data any, flash *Flash) {
	if flash == nil {
		flash = s.takeFlash(w, r)
	}
	sess := middleware.SessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentRole":  func() string { return sess.Role },
		"currentEmail": func() string { return sess.Email },
		"isLoggedIn":   func() bool { return sess.IsAuthenticated() },
		"csrfToken":    func() string { return csrf.Token(r) },
		"flash":        func() *Flash { return flash },
		"errorText":    userMessage,
		"markdown":     s.markdown,
		"units":        formatUnits,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"loginPath":    guard.LoginPath,
		"dashPath":     guard.DashboardPath,
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		slog.Error("template_error", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		slog.Error("render_error", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// markdown renders event descriptions. Raw HTML in the source is escaped by goldmark.
func (s *Server) markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatUnits prints blood units without a trailing ".0".
func formatUnits(u float64) string {
	return strconv.FormatFloat(u, 'f', -1, 64)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// safeNext accepts only same-site absolute paths, falling back otherwise.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// form trims a posted field.
func form(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
