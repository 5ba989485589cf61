package api

import (
	"context"
	"net/http"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Usage mirrors GET /user/usage.
type Usage struct {
	Tier      string `json:"tier"`
	Usage     int    `json:"usage"`
	Quota     int    `json:"quota"`
	ResetDate string `json:"reset_date"`
}

type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Company  string `json:"company,omitempty" validate:"max=120"`
}

// Usage fetches the caller's subscription usage.
func (c *Client) Usage(ctx context.Context, token string) (*Usage, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	out := &Usage{}
	if err := c.do(ctx, http.MethodGet, "/user/usage", token, nil, out, "HTTP error"); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthStatus never fails: any problem reads as not authenticated.
func (c *Client) AuthStatus(ctx context.Context, token string) *AuthStatus {
	out := &AuthStatus{}
	if err := c.do(ctx, http.MethodGet, "/auth/status", token, nil, out, "HTTP error"); err != nil {
		return &AuthStatus{Authenticated: false}
	}
	return out
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/password", "", creds, out, "Authentication failed:"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, out, "Registration failed:"); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout tells the provider to drop the session.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, "HTTP error")
}
