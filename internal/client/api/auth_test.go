package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/usage", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"tier":"basic","usage":7,"quota":50,"reset_date":"2025-07-01T00:00:00Z"}`))
	})
	mux.HandleFunc("/auth/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"authenticated":true,"user":{"id":"u1","name":"Jane Smith","email":"jane@example.com"}}`))
	})
	mux.HandleFunc("/auth/password", func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"good","user":{"id":"u1","name":"Jane Smith","email":"` + c.Email + `"}}`))
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

func TestUsage(t *testing.T) {
	ts := newAuthServer(t)
	defer ts.Close()
	c := New(ts.URL, ts.Client())

	u, err := c.Usage(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, Usage{Tier: "basic", Usage: 7, Quota: 50, ResetDate: "2025-07-01T00:00:00Z"}, *u)

	_, err = c.Usage(context.Background(), "bad")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Invalid token", se.Message)

	_, err = c.Usage(context.Background(), "")
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestAuthStatus(t *testing.T) {
	ts := newAuthServer(t)
	c := New(ts.URL, ts.Client())

	st := c.AuthStatus(context.Background(), "good")
	assert.True(t, st.Authenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "Jane Smith", st.User.Name)

	assert.False(t, c.AuthStatus(context.Background(), "bad").Authenticated)

	ts.Close()
	assert.False(t, c.AuthStatus(context.Background(), "good").Authenticated)
}

func TestLogin(t *testing.T) {
	ts := newAuthServer(t)
	defer ts.Close()
	c := New(ts.URL, ts.Client())

	res, err := c.Login(context.Background(), Credentials{Email: "jane@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "good", res.Token)
	assert.Equal(t, "jane@example.com", res.User.Email)

	_, err = c.Login(context.Background(), Credentials{Email: "jane@example.com", Password: "nope"})
	require.EqualError(t, err, "Authentication failed: 401")
}

func TestRegister_ServerMessage(t *testing.T) {
	ts := newAuthServer(t)
	defer ts.Close()

	_, err := New(ts.URL, ts.Client()).Register(context.Background(), SignupRequest{Name: "J", Email: "j@x.io", Password: "12345678"})
	require.EqualError(t, err, "Email already registered")
}

func TestLogout(t *testing.T) {
	ts := newAuthServer(t)
	defer ts.Close()

	require.NoError(t, New(ts.URL, ts.Client()).Logout(context.Background(), "good"))
}
