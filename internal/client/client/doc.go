// Package client talks to the identity and business REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with the
//     lookups the session needs: token verification, user, business links,
//     business, subscriptions, superadmin flag, guest invitations, plus
//     login, registration and logout.
//  2. A REST implementation (see HTTPClient) that reads the bearer token from
//     a credentials.Store on every request, tags requests with an
//     X-Request-ID, applies a per-request timeout and maps HTTP status codes
//     to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrDuplicateEmail.
// Any other non-2xx response is returned as *APIError.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation in addition to the configured
// timeout.
package client
