// Package common contains shared constants and sentinel errors used across
// RepSphere components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token inside the Authorization header.
const BearerPrefix = "Bearer "

// MaxUploadBytes is the largest recording the client accepts (50 MiB).
const MaxUploadBytes int64 = 50 << 20
