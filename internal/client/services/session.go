package services

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/gestor/internal/client/models"
)

// Phase is the bootstrap state of the session.
type Phase int32

const (
	PhaseNotStarted Phase = iota
	PhaseRestoring
	PhaseReady
	// PhaseFailed is reserved: every failure path currently degrades to a
	// logged-out PhaseReady.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRestoring:
		return "restoring"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the authenticated state of the running application.
//
// IsAuthenticated implies CurrentUser and AuthToken are set. Subscriptions
// are only ever populated when PrimaryBusinessLink is set.
type Session struct {
	AuthToken               string
	UserID                  string
	CurrentUser             *models.User
	IsAuthenticated         bool
	IsSuperAdmin            bool
	PrimaryBusinessLink     *models.UserBusinessLink
	BusinessDetail          *models.Business
	Subscriptions           []models.Subscription
	PendingGuestInvitations []models.GuestInvitation
	Phase                   Phase

	// FailedSteps names the enrichment lookups that failed during the last
	// operation, in the order they were attempted.
	FailedSteps []string
}

// Role is the user's role in the active business, or "" without one.
func (s Session) Role() models.Role {
	if s.PrimaryBusinessLink == nil {
		return ""
	}
	return s.PrimaryBusinessLink.Role
}

// ActiveSubscription returns the first subscription active at now.
func (s Session) ActiveSubscription(now time.Time) (models.Subscription, bool) {
	for _, sub := range s.Subscriptions {
		if sub.IsActive(now) {
			return sub, true
		}
	}
	return models.Subscription{}, false
}

func (s Session) clone() Session {
	c := s
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		c.CurrentUser = &u
	}
	if s.PrimaryBusinessLink != nil {
		l := *s.PrimaryBusinessLink
		c.PrimaryBusinessLink = &l
	}
	if s.BusinessDetail != nil {
		b := *s.BusinessDetail
		c.BusinessDetail = &b
	}
	c.Subscriptions = slices.Clone(s.Subscriptions)
	c.PendingGuestInvitations = slices.Clone(s.PendingGuestInvitations)
	c.FailedSteps = slices.Clone(s.FailedSteps)
	return c
}
