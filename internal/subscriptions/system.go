package subscriptions

import "context"

// System resolves subscription state for owners.
type System interface {
	Handler() *Handler

	// Find returns the owner's subscription or ErrNotFound.
	Find(ctx context.Context, ownerID string) (*Subscription, error)

	// IsPremium reports premium entitlement. Owners without a record are free.
	IsPremium(ctx context.Context, ownerID string) (bool, error)
}
