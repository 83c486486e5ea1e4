package client

import (
	"context"

	"github.com/dmitrijs2005/gestor/internal/client/models"
)

// Client is the identity and business backend as seen by the session
// services. Calls that need an identity authenticate with the bearer token
// currently persisted on the client.
type Client interface {
	// VerifyToken checks the persisted token and returns the user id it
	// belongs to. A missing, expired or invalid token yields ErrUnauthorized.
	VerifyToken(ctx context.Context) (string, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	// GetUserBusinessLinksByUserID returns links in backend order; index 0
	// is the active business.
	GetUserBusinessLinksByUserID(ctx context.Context, userID string) ([]models.UserBusinessLink, error)
	GetBusinessByID(ctx context.Context, id string) (models.Business, error)
	GetSubscriptionsByBusinessID(ctx context.Context, businessID string) ([]models.Subscription, error)
	CheckSuperAdmin(ctx context.Context) (bool, error)
	FindPendingGuestInvitations(ctx context.Context, email string) ([]models.GuestInvitation, error)
	Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
	// RegisterUser fails with ErrDuplicateEmail when the email is taken.
	RegisterUser(ctx context.Context, form models.SignupForm) (models.AuthResult, error)
	Logout(ctx context.Context) error
}
