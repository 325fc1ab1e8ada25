package session

import "strconv"

// Role constants
const (
	RoleNone      = ""
	RoleDonor     = "donor"
	RoleOrganizer = "organizer"
)

// Storage keys. These are the only four fields a browser session persists.
const (
	KeyToken  = "access_token"
	KeyUserID = "user_id"
	KeyRole   = "user_role"
	KeyEmail  = "user_email"
)

// Keys lists every persisted session key.
var Keys = []string{KeyToken, KeyUserID, KeyRole, KeyEmail}

// Session holds the locally cached login state of one browser.
// The token is never validated or refreshed locally.
type Session struct {
	Token  string
	UserID string
	Role   string
	Email  string
}

// New builds a session from a successful login or registration.
// PRE: token and role come from the same server response
// POST: Token and Role are set together
func New(token string, userID int64, role, email string) Session {
	return Session{
		Token:  token,
		UserID: strconv.FormatInt(userID, 10),
		Role:   role,
		Email:  email,
	}
}

// IsAuthenticated reports whether a token is present.
// Absence of a token is the only unauthenticated signal.
// INVARIANT: Session fields are not mutated
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// HasRole reports whether the session is authenticated as role.
func (s Session) HasRole(role string) bool {
	return s.IsAuthenticated() && s.Role == role
}

// Values flattens the session into storage key-value pairs. Empty fields are omitted.
func (s Session) Values() map[string]string {
	vals := make(map[string]string, len(Keys))
	if s.Token != "" {
		vals[KeyToken] = s.Token
	}
	if s.UserID != "" {
		vals[KeyUserID] = s.UserID
	}
	if s.Role != "" {
		vals[KeyRole] = s.Role
	}
	if s.Email != "" {
		vals[KeyEmail] = s.Email
	}
	return vals
}

// FromValues rebuilds a session from storage key-value pairs.
// Unknown keys are ignored.
func FromValues(vals map[string]string) Session {
	return Session{
		Token:  vals[KeyToken],
		UserID: vals[KeyUserID],
		Role:   vals[KeyRole],
		Email:  vals[KeyEmail],
	}
}

// IsValidRole reports whether role names one of the two account kinds.
func IsValidRole(role string) bool {
	return role == RoleDonor || role == RoleOrganizer
}
