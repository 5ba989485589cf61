package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	status    *api.AuthStatus
	loginRes  *api.AuthResponse
	loginErr  error
	signupErr error
	usage     *api.Usage
	usageErr  error
	logoutErr error

	gotCreds     api.Credentials
	gotSignup    api.SignupRequest
	logoutTokens []string
	usageTokens  []string
}

func (f *fakeProvider) CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus {
	if f.status == nil {
		return &api.AuthStatus{}
	}
	return f.status
}

func (f *fakeProvider) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	f.gotCreds = creds
	return f.loginRes, f.loginErr
}

func (f *fakeProvider) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	f.gotSignup = req
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &api.AuthResponse{Token: "new-token", User: api.User{ID: "u2", Name: req.Name, Email: req.Email}}, nil
}

func (f *fakeProvider) Logout(ctx context.Context, token string) error {
	f.logoutTokens = append(f.logoutTokens, token)
	return f.logoutErr
}

func (f *fakeProvider) Usage(ctx context.Context, token string) (*api.Usage, error) {
	f.usageTokens = append(f.usageTokens, token)
	return f.usage, f.usageErr
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(p Provider) *Session {
	s := NewSession(p, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestNewSession_DefaultsToFreeTier(t *testing.T) {
	st := newTestSession(&fakeProvider{}).Snapshot()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, FreeTier, st.Subscription.Tier)
	assert.Equal(t, 10, st.Subscription.Quota)
}

func TestInit(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		p := &fakeProvider{
			status: &api.AuthStatus{Authenticated: true, User: &api.User{ID: "u1", Name: "Jane Smith"}},
			usage:  &api.Usage{Tier: "pro", Usage: 12, Quota: 250, ResetDate: "2025-07-01T00:00:00Z"},
		}
		s := newTestSession(p)

		st := s.Init(context.Background(), "tok")
		assert.True(t, st.Authenticated)
		assert.Equal(t, "Jane Smith", st.User.Name)
		assert.Equal(t, Subscription{Tier: "pro", Quota: 250, Usage: 12, ResetDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}, st.Subscription)
		assert.Equal(t, "tok", s.Token())
		assert.Equal(t, []string{"tok"}, p.usageTokens)
	})

	t.Run("not authenticated", func(t *testing.T) {
		p := &fakeProvider{}
		s := newTestSession(p)

		st := s.Init(context.Background(), "stale")
		assert.False(t, st.Authenticated)
		assert.Empty(t, s.Token())
		assert.Empty(t, p.usageTokens)
		assert.Equal(t, DefaultSubscription(fixedNow), st.Subscription)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success wipes password", func(t *testing.T) {
		p := &fakeProvider{
			loginRes: &api.AuthResponse{Token: "tok", User: api.User{ID: "u1", Name: "Jane", Email: "jane@example.com"}},
			usageErr: errors.New("usage down"),
		}
		s := newTestSession(p)
		pw := []byte("hunter22")

		require.NoError(t, s.Login(context.Background(), " jane@example.com ", pw))
		assert.Equal(t, api.Credentials{Email: "jane@example.com", Password: "hunter22"}, p.gotCreds)
		assert.Equal(t, make([]byte, len(pw)), pw)

		st := s.Snapshot()
		assert.True(t, st.Authenticated)
		assert.Equal(t, "jane@example.com", st.User.Email)
		assert.Equal(t, FreeTier, st.Subscription.Tier, "usage failure falls back to free tier")
	})

	t.Run("provider error", func(t *testing.T) {
		s := newTestSession(&fakeProvider{loginErr: &api.StatusError{StatusCode: 401, Message: "Authentication failed: 401"}})

		err := s.Login(context.Background(), "jane@example.com", []byte("x"))
		require.EqualError(t, err, "Authentication failed: 401")
		assert.False(t, s.Authenticated())
	})

	t.Run("missing fields", func(t *testing.T) {
		err := newTestSession(&fakeProvider{}).Login(context.Background(), "", []byte("x"))
		require.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestSignup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := &fakeProvider{usage: &api.Usage{Tier: "free", Usage: 0, Quota: 10}}
		s := newTestSession(p)

		err := s.Signup(context.Background(), api.SignupRequest{Name: "Ann Lee", Email: "ann@example.com", Password: "longenough"})
		require.NoError(t, err)
		assert.Equal(t, "new-token", s.Token())
		assert.Equal(t, "Ann Lee", s.Snapshot().User.Name)
	})

	t.Run("invalid email", func(t *testing.T) {
		p := &fakeProvider{}
		err := newTestSession(p).Signup(context.Background(), api.SignupRequest{Name: "Ann", Email: "not-an-email", Password: "longenough"})
		require.ErrorIs(t, err, common.ErrorValidation)
		assert.Contains(t, err.Error(), "email")
		assert.Empty(t, p.gotSignup.Email, "provider must not be called")
	})

	t.Run("short password", func(t *testing.T) {
		err := newTestSession(&fakeProvider{}).Signup(context.Background(), api.SignupRequest{Name: "Ann", Email: "a@b.co", Password: "short"})
		require.ErrorIs(t, err, common.ErrorValidation)
		assert.Contains(t, err.Error(), "password")
	})
}

func TestLogout(t *testing.T) {
	p := &fakeProvider{
		loginRes:  &api.AuthResponse{Token: "tok", User: api.User{ID: "u1"}},
		usage:     &api.Usage{Tier: "basic", Quota: 50, Usage: 10},
		logoutErr: errors.New("provider unreachable"),
	}
	s := newTestSession(p)
	require.NoError(t, s.Login(context.Background(), "a@b.co", []byte("pw")))
	require.Equal(t, "basic", s.Snapshot().Subscription.Tier)

	s.Logout(context.Background())

	st := s.Snapshot()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, FreeTier, st.Subscription.Tier)
	assert.Empty(t, s.Token())
	assert.Equal(t, []string{"tok"}, p.logoutTokens)

	s.Logout(context.Background())
	assert.Len(t, p.logoutTokens, 1, "no provider call when already signed out")
}

func TestToken_ExpiredJWT(t *testing.T) {
	sign := func(exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).
			SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	p := &fakeProvider{loginRes: &api.AuthResponse{Token: sign(fixedNow.Add(-time.Minute))}}
	s := newTestSession(p)
	require.NoError(t, s.Login(context.Background(), "a@b.co", []byte("pw")))
	assert.Empty(t, s.Token())

	live := sign(fixedNow.Add(time.Hour))
	p.loginRes = &api.AuthResponse{Token: live}
	require.NoError(t, s.Login(context.Background(), "a@b.co", []byte("pw")))
	assert.Equal(t, live, s.Token())
}

func TestSnapshot_IsACopy(t *testing.T) {
	p := &fakeProvider{loginRes: &api.AuthResponse{Token: "tok", User: api.User{Name: "Jane"}}}
	s := newTestSession(p)
	require.NoError(t, s.Login(context.Background(), "a@b.co", []byte("pw")))

	st := s.Snapshot()
	st.User.Name = "Mallory"
	assert.Equal(t, "Jane", s.Snapshot().User.Name)
}
