package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"redconnect/internal/adapters/api"
	"redconnect/internal/domain/guard"
	domainSession "redconnect/internal/domain/session"
)

// ErrMissingCredentials is returned before any network call when a field is blank.
var ErrMissingCredentials = errors.New("please enter your email and password")

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	ClientID string
	Area     string
	Email    string
	Password string
}

// LoginResult carries the persisted session and where to go next.
type LoginResult struct {
	Session  domainSession.Session
	Location string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API      AuthAPI
	Sessions SessionWriter
}

// ExecuteLogin authenticates against the area's login endpoint and persists the session.
// PRE: input.Area is donor or organizer
// POST: On success token, user id, role and email are stored together
// INVARIANT: Nothing is stored when the server rejects the credentials
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	var (
		tok api.Token
		err error
	)
	switch input.Area {
	case guard.AreaDonor:
		tok, err = deps.API.DonorLogin(ctx, email, input.Password)
	case guard.AreaOrganizer:
		tok, err = deps.API.OrganizerLogin(ctx, email, input.Password)
	default:
		return LoginResult{}, guard.ErrUnknownArea
	}
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "area", input.Area, "status", api.StatusOf(err))
		return LoginResult{}, err
	}

	sess, err := persistToken(ctx, input.ClientID, tok, input.Area, email, deps.Sessions)
	if err != nil {
		return LoginResult{}, err
	}
	slog.Info("auth_event", "event", "login_success", "role", sess.Role, "user_id", sess.UserID)
	return LoginResult{Session: sess, Location: guard.DashboardPath(sess.Role)}, nil
}

// persistToken stores the session built from a login or registration response.
// The server's role wins; the requesting area is the fallback when the server omits it.
func persistToken(ctx context.Context, clientID string, tok api.Token, area, email string, sessions SessionWriter) (domainSession.Session, error) {
	role := tok.Role
	if !domainSession.IsValidRole(role) {
		role = area
	}
	sess := domainSession.New(tok.AccessToken, tok.UserID, role, email)
	if err := sessions.Save(ctx, clientID, sess); err != nil {
		slog.Error("auth_event", "event", "session_save_failed", "error", err)
		return domainSession.Session{}, err
	}
	return sess, nil
}
