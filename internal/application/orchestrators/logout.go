package orchestrators

import (
	"context"
	"log/slog"

	"redconnect/internal/domain/guard"
)

// LogoutInput identifies the browser being logged out.
type LogoutInput struct {
	ClientID string
}

// LogoutDeps holds dependencies for Logout and ConfirmRoleSwitch.
type LogoutDeps struct {
	Sessions SessionWriter
	Chats    ConversationResetter // optional
}

// forget drops the browser's chat so the next visitor on it starts fresh.
func (d LogoutDeps) forget(clientID string) {
	if d.Chats != nil {
		d.Chats.Reset(clientID)
	}
}

// ExecuteLogout removes all four session keys regardless of role. The server is not told.
// POST: The browser is unauthenticated and its chat history is gone
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) error {
	if err := deps.Sessions.Clear(ctx, input.ClientID); err != nil {
		slog.Error("auth_event", "event", "logout_failed", "error", err)
		return err
	}
	deps.forget(input.ClientID)
	slog.Info("auth_event", "event", "logout")
	return nil
}

// ConfirmRoleSwitchInput carries the area the user wants to switch into.
type ConfirmRoleSwitchInput struct {
	ClientID string
	Area     string
}

// ExecuteConfirmRoleSwitch clears the session and returns the target area's login location.
// PRE: Area is donor or organizer
// POST: The browser is unauthenticated
func ExecuteConfirmRoleSwitch(ctx context.Context, input ConfirmRoleSwitchInput, deps LogoutDeps) (string, error) {
	area, err := guard.ParseArea(input.Area)
	if err != nil {
		return "", err
	}
	if err := deps.Sessions.Clear(ctx, input.ClientID); err != nil {
		return "", err
	}
	deps.forget(input.ClientID)
	slog.Info("auth_event", "event", "role_switch", "to", area)
	return guard.ConfirmSwitch(area), nil
}
