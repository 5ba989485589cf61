// Package api is the HTTP client for the analysis gateway and its auth
// endpoints.
//
// Errors returned by Analyze fall into four classes that callers can tell
// apart with errors.Is / errors.As:
//
//   - ErrTimeout: the request did not finish within the analysis timeout.
//   - ErrNetwork: no response was received (DNS, refused connection, reset).
//   - *StatusError: the server answered with a non-2xx status.
//   - anything else (bad response body, missing token, cancelled context).
package api
