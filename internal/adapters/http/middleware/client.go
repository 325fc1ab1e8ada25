package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	domainSession "redconnect/internal/domain/session"
)

// ClientCookieName names the cookie carrying the signed browser client id.
const ClientCookieName = "redconnect_client"

// clientCookieMaxAge keeps the client id for a year; the session itself has no expiry.
const clientCookieMaxAge = 365 * 24 * 60 * 60

type contextKey string

const (
	clientIDContextKey contextKey = "client_id"
	sessionContextKey  contextKey = "session"
)

// SessionLoader reads the persisted session for a browser client.
type SessionLoader interface {
	Load(ctx context.Context, clientID string) (domainSession.Session, error)
}

// Client returns middleware that identifies the browser and loads its session into the context.
// A missing or tampered cookie gets a fresh client id, which starts with an empty session.
// It never blocks a request; role checks happen in the handlers through the navigation guard.
func Client(loader SessionLoader, codec *securecookie.SecureCookie, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			clientID := readClientID(r, codec)
			if clientID == "" {
				clientID = uuid.NewString()
				if err := setClientCookie(w, codec, clientID, secure); err != nil {
					slog.Error("client_event", "event", "cookie_encode_failed", "error", err)
				}
			}

			sess, err := loader.Load(r.Context(), clientID)
			if err != nil {
				// Treat unreadable storage as logged out rather than failing the page.
				slog.Error("client_event", "event", "session_load_failed", "error", err)
				sess = domainSession.Session{}
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClient(r.Context(), clientID, sess)))
		})
	}
}

func readClientID(r *http.Request, codec *securecookie.SecureCookie) string {
	cookie, err := r.Cookie(ClientCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	var id string
	if err := codec.Decode(ClientCookieName, cookie.Value, &id); err != nil {
		slog.Warn("client_event", "event", "cookie_rejected", "error", err)
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

func setClientCookie(w http.ResponseWriter, codec *securecookie.SecureCookie, clientID string, secure bool) error {
	value, err := codec.Encode(ClientCookieName, clientID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   clientCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClientIDFromContext returns the browser client id, or "" outside the Client middleware.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDContextKey).(string)
	return id
}

// SessionFromContext returns the session loaded for this request.
// Outside the Client middleware it is the empty, unauthenticated session.
func SessionFromContext(ctx context.Context) domainSession.Session {
	sess, _ := ctx.Value(sessionContextKey).(domainSession.Session)
	return sess
}

// ContextWithClient returns a context carrying the client id and session.
func ContextWithClient(ctx context.Context, clientID string, sess domainSession.Session) context.Context {
	ctx = context.WithValue(ctx, clientIDContextKey, clientID)
	return context.WithValue(ctx, sessionContextKey, sess)
}
