package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// BillingAccount is the per-user subscription row settled by Stripe webhooks.
// Users without a row are free-tier.
type BillingAccount struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	PlanID               string
	Status               string
	IsAdmin              bool
	CancelAtPeriodEnd    bool
	CurrentPeriodEnd     sql.NullTime
	StripeCustomerID     sql.NullString
	StripeSubscriptionID sql.NullString
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
