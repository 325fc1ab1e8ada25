package api

import (
	"context"
	"net/http"
)

// Token is the login and registration response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
}

// CurrentUser is the /api/auth/me response.
type CurrentUser struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DonorRegister creates a donor account.
func (c *Client) DonorRegister(ctx context.Context, payload map[string]any) (Token, error) {
	var t Token
	err := c.do(ctx, "register", http.MethodPost, "/api/auth/donor/register", nil, payload, &t)
	return t, err
}

// OrganizerRegister creates an organizer account.
func (c *Client) OrganizerRegister(ctx context.Context, payload map[string]any) (Token, error) {
	var t Token
	err := c.do(ctx, "register", http.MethodPost, "/api/auth/organizer/register", nil, payload, &t)
	return t, err
}

// DonorLogin authenticates a donor.
func (c *Client) DonorLogin(ctx context.Context, email, password string) (Token, error) {
	var t Token
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/donor/login", nil, credentials{email, password}, &t)
	return t, err
}

// OrganizerLogin authenticates an organizer.
func (c *Client) OrganizerLogin(ctx context.Context, email, password string) (Token, error) {
	var t Token
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/organizer/login", nil, credentials{email, password}, &t)
	return t, err
}

// CurrentUser returns the account behind the client's token.
func (c *Client) CurrentUser(ctx context.Context) (CurrentUser, error) {
	var u CurrentUser
	err := c.do(ctx, "get current user", http.MethodGet, "/api/auth/me", nil, nil, &u)
	return u, err
}
