// Package subscriptions answers whether an owner is entitled to premium
// analyses, backed by the subscriptions table.
package subscriptions

import "time"

// Plans.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Statuses.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

// Subscription is an owner's billing state as far as analysis depth cares.
// A nil CurrentPeriodEnd means the period does not end.
type Subscription struct {
	OwnerID          string     `json:"ownerId"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsActive reports whether the status grants access.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}

// IsPremium reports whether the subscription is a paid plan that is active
// at now.
func (s *Subscription) IsPremium(now time.Time) bool {
	if s.Plan == PlanFree || !s.IsActive() {
		return false
	}
	return s.CurrentPeriodEnd == nil || now.Before(*s.CurrentPeriodEnd)
}

// Free returns the implicit subscription of an owner without a record.
func Free(ownerID string) *Subscription {
	return &Subscription{OwnerID: ownerID, Plan: PlanFree, Status: StatusActive}
}

// Entitlement is the caller-facing entitlement summary.
type Entitlement struct {
	Plan    string `json:"plan"`
	Status  string `json:"status"`
	Premium bool   `json:"premium"`
}
