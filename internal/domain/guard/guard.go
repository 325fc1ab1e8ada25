package guard

import (
	"errors"
	"fmt"

	"redconnect/internal/domain/session"
)

// Areas are the two role-restricted parts of the site.
const (
	AreaDonor     = session.RoleDonor
	AreaOrganizer = session.RoleOrganizer
)

// Action is what the caller must do with an attempted navigation.
type Action int

const (
	Proceed Action = iota
	RedirectLogin
	PromptSwitch
	AccessDenied
	Redirect
)

// String returns a log-friendly name for the action.
func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect_login"
	case PromptSwitch:
		return "prompt_switch"
	case AccessDenied:
		return "access_denied"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// ErrUnknownArea is returned when a requested area is neither donor nor organizer.
var ErrUnknownArea = errors.New("area must be 'donor' or 'organizer'")

// Notice is a user-facing message shown alongside a decision.
type Notice struct {
	Title       string
	Description string
}

// Decision is the outcome of a guard check.
type Decision struct {
	Action   Action
	Location string // where to send the browser; empty means stay
	Notice   *Notice
}

// ParseArea validates an area name taken from a URL.
func ParseArea(s string) (string, error) {
	if s == AreaDonor || s == AreaOrganizer {
		return s, nil
	}
	return "", ErrUnknownArea
}

// LoginPath returns the login screen for an area.
func LoginPath(area string) string {
	if area == AreaOrganizer {
		return "/organizer-login"
	}
	return "/donor-login"
}

// DashboardPath returns the dashboard for an area.
func DashboardPath(area string) string {
	if area == AreaOrganizer {
		return "/organizer-dashboard"
	}
	return "/donor-dashboard"
}

// SwitchPath returns the confirmation prompt for switching into an area.
func SwitchPath(area string) string {
	return "/switch-role?to=" + area
}

// Navigate decides what happens when the user heads for an area.
// PRE: area is AreaDonor or AreaOrganizer
// POST: Never returns Proceed for a session without a token
// INVARIANT: Decision is derived from local state only; the server is never consulted
func Navigate(s session.Session, area string) Decision {
	if !s.IsAuthenticated() {
		return Decision{Action: RedirectLogin, Location: LoginPath(area)}
	}
	if s.HasRole(area) {
		return Decision{Action: Proceed, Location: DashboardPath(area)}
	}
	if session.IsValidRole(s.Role) {
		return Decision{Action: PromptSwitch, Location: SwitchPath(area)}
	}
	// Token present but no usable role: the login screen is the only sensible target.
	return Decision{Action: RedirectLogin, Location: LoginPath(area)}
}

// ProtectRender gates a role-restricted page render.
// A wrong role is sent back to the dashboard of the role it actually holds.
// PRE: required is AreaDonor or AreaOrganizer
// POST: Proceed only when a token is present and the role matches
func ProtectRender(s session.Session, required string) Decision {
	if !s.IsAuthenticated() {
		return Decision{
			Action:   RedirectLogin,
			Location: LoginPath(required),
			Notice:   &Notice{Title: "Not Logged In", Description: "Please login first"},
		}
	}
	if s.HasRole(required) {
		return Decision{Action: Proceed}
	}
	denied := &Notice{
		Title:       "Access Denied",
		Description: fmt.Sprintf("You must be logged in as a %s to access this page", required),
	}
	if session.IsValidRole(s.Role) {
		return Decision{Action: AccessDenied, Location: DashboardPath(s.Role), Notice: denied}
	}
	// No dashboard exists for an unknown role; redirecting to one would loop.
	return Decision{Action: AccessDenied, Location: LoginPath(required), Notice: denied}
}

// LoginPageCheck runs when a login or registration screen for area is opened.
// Someone already signed in as the other role is sent to their own dashboard.
func LoginPageCheck(s session.Session, area string) Decision {
	if !s.IsAuthenticated() || s.Role == area || !session.IsValidRole(s.Role) {
		return Decision{Action: Proceed}
	}
	return Decision{
		Action:   Redirect,
		Location: DashboardPath(s.Role),
		Notice: &Notice{
			Title:       "Already Logged In",
			Description: fmt.Sprintf("You are logged in as %s. Please logout first.", article(s.Role)),
		},
	}
}

// ConfirmSwitch returns where to go once the session has been cleared for a switch into area.
func ConfirmSwitch(area string) string {
	return LoginPath(area)
}

// SwitchPrompt returns the confirmation copy for switching into area.
func SwitchPrompt(area string) Notice {
	if area == AreaOrganizer {
		return Notice{
			Title:       "Switch to Organizer",
			Description: "You're logged in as a donor. To access the organizer area you must logout first. Do you want to logout and continue to organizer login?",
		}
	}
	return Notice{
		Title:       "Switch to Donor",
		Description: "You're logged in as an organizer. To access donor features you must logout first. Do you want to logout and continue to donor login?",
	}
}

func article(role string) string {
	if role == AreaOrganizer {
		return "an organizer"
	}
	return "a " + role
}
