// Package common contains shared constants and sentinel errors used across
// gestor client components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "
