package subscriptions

import (
	"database/sql"

	"github.com/JaimeStill/clausewise/pkg/query"
	"github.com/JaimeStill/clausewise/pkg/repository"
)

var projection = query.NewProjection("subscriptions", "s").
	Field("owner_id", "OwnerID").
	Field("plan", "Plan").
	Field("status", "Status").
	Field("current_period_end", "CurrentPeriodEnd").
	Field("updated_at", "UpdatedAt")

func scanSubscription(s repository.Scanner) (Subscription, error) {
	var (
		sub       Subscription
		periodEnd sql.NullTime
	)
	err := s.Scan(&sub.OwnerID, &sub.Plan, &sub.Status, &periodEnd, &sub.UpdatedAt)
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return sub, err
}
