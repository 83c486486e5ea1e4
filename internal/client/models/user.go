// Package models defines the client-side records exchanged with the identity
// backend and aggregated into the session.
package models

// User is an account as returned by the backend.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
}

// Credentials are submitted on sign-in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupForm is submitted on registration. ConfirmPassword never leaves the
// client.
type SignupForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// GuestInvitation invites an email address to join a business.
type GuestInvitation struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	BusinessID string `json:"businessId"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}
