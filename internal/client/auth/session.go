// Package auth holds the client's in-memory authentication state: who is
// signed in, their bearer token and their subscription usage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// Provider is the auth backend the session delegates to.
type Provider interface {
	CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Usage(ctx context.Context, token string) (*api.Usage, error)
}

const (
	FreeTier       = "free"
	FreeTierQuota  = 10
	freeResetAfter = 30 * 24 * time.Hour
)

type User struct {
	ID    string
	Name  string
	Email string
}

type Subscription struct {
	Tier      string
	Quota     int
	Usage     int
	ResetDate time.Time
}

// State is a copy of the session at one point in time.
type State struct {
	Authenticated bool
	User          *User
	Subscription  Subscription
}

// DefaultSubscription is assumed whenever real usage cannot be fetched.
func DefaultSubscription(now time.Time) Subscription {
	return Subscription{Tier: FreeTier, Quota: FreeTierQuota, ResetDate: now.Add(freeResetAfter)}
}

// Session is safe for concurrent use.
type Session struct {
	provider Provider
	log      logging.Logger
	validate *validator.Validate
	now      func() time.Time

	mu    sync.RWMutex
	token string
	state State
}

func NewSession(p Provider, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	s := &Session{provider: p, log: log, validate: validator.New(), now: time.Now}
	s.state.Subscription = DefaultSubscription(s.now())
	return s
}

// Init asks the provider whether token (possibly empty) is still a live
// session and loads usage for it.
func (s *Session) Init(ctx context.Context, token string) State {
	st := s.provider.CheckAuthStatus(ctx, token)

	s.mu.Lock()
	if st != nil && st.Authenticated {
		s.token = token
		s.state.Authenticated = true
		s.state.User = toUser(st.User)
	} else {
		s.token = ""
		s.state = State{Subscription: DefaultSubscription(s.now())}
	}
	s.mu.Unlock()

	if s.Authenticated() {
		s.RefreshUsage(ctx)
	}
	return s.Snapshot()
}

// Login authenticates with email and password. password is wiped before
// Login returns.
func (s *Session) Login(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	res, err := s.provider.Login(ctx, api.Credentials{Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	s.signedIn(res)
	s.RefreshUsage(ctx)
	return nil
}

// Signup validates req, registers the user and signs them in.
func (s *Session) Signup(ctx context.Context, req api.SignupRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is invalid", common.ErrorValidation, strings.ToLower(verrs[0].Field()))
		}
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	res, err := s.provider.Signup(ctx, req)
	if err != nil {
		return err
	}
	s.signedIn(res)
	s.RefreshUsage(ctx)
	return nil
}

// Logout clears local state. A provider failure is logged only.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.state = State{Subscription: DefaultSubscription(s.now())}
	s.mu.Unlock()

	if token == "" {
		return
	}
	if err := s.provider.Logout(ctx, token); err != nil {
		s.log.Warn(ctx, "logout request failed", "error", err)
	}
}

// RefreshUsage reloads the subscription, falling back to free-tier defaults.
func (s *Session) RefreshUsage(ctx context.Context) Subscription {
	token := s.Token()
	sub := DefaultSubscription(s.now())

	if token != "" {
		u, err := s.provider.Usage(ctx, token)
		if err == nil && u == nil {
			err = errors.New("empty usage response")
		}
		if err != nil {
			s.log.Warn(ctx, "usage lookup failed, assuming free tier", "error", err)
		} else {
			sub = Subscription{Tier: u.Tier, Quota: u.Quota, Usage: u.Usage, ResetDate: sub.ResetDate}
			if t, err := time.Parse(time.RFC3339, u.ResetDate); err == nil {
				sub.ResetDate = t
			}
			if sub.Tier == "" {
				sub.Tier = FreeTier
			}
		}
	}

	s.mu.Lock()
	s.state.Subscription = sub
	s.mu.Unlock()
	return sub
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Token returns the bearer token, or "" when signed out or when the token's
// exp claim has passed.
func (s *Session) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" || tokenExpired(token, s.now()) {
		return ""
	}
	return token
}

func (s *Session) signedIn(res *api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = res.Token
	s.state.Authenticated = true
	s.state.User = toUser(&res.User)
}

func toUser(u *api.User) *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// tokenExpired reads exp without verifying the signature; the server does
// the verification. Tokens that are not JWTs never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
