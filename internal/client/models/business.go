package models

import "time"

// Role is a user's role inside a business.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleGuest    Role = "guest"
)

// UserBusinessLink associates a user with a business. The backend names the
// business id field userBusinessBusinessId.
type UserBusinessLink struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	BusinessID string `json:"userBusinessBusinessId"`
	Role       Role   `json:"role"`
}

// Business is a tenant of the application.
type Business struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rut     string `json:"rut"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// SubscriptionStatus is the billing state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription is a business's plan subscription.
type Subscription struct {
	ID         string             `json:"id"`
	BusinessID string             `json:"businessId"`
	Plan       string             `json:"plan"`
	Status     SubscriptionStatus `json:"status"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    *time.Time         `json:"endDate,omitempty"`
}

// IsActive reports whether s is active at now. An open-ended subscription
// stays active until its status changes.
func (s Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if now.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || now.Before(*s.EndDate)
}
