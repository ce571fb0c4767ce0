package billing

import "encoding/json"

// SubscriptionStatus values mirror the payment provider's subscription
// lifecycle, plus "inactive" for users with no subscription at all.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusInactive SubscriptionStatus = "inactive"
)

// Plan IDs form a fixed enumerated set.
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// CoverGeneration is either a plain bool or the string "premium" on the wire.
type CoverGeneration struct {
	Enabled bool
	Premium bool
}

func (c CoverGeneration) MarshalJSON() ([]byte, error) {
	if c.Premium {
		return json.Marshal("premium")
	}
	return json.Marshal(c.Enabled)
}

func (c *CoverGeneration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Premium = s == "premium"
		c.Enabled = c.Premium
		return nil
	}
	c.Premium = false
	return json.Unmarshal(data, &c.Enabled)
}

// Entitlements are the capabilities a plan grants. Numeric caps are pointers:
// nil means unlimited.
type Entitlements struct {
	MaxProjectsPerMonth *int            `json:"max_projects_per_month"`
	MaxMinutesPerBook   *int            `json:"max_minutes_per_book"`
	FindawayPackage     bool            `json:"findaway_package"`
	CoverGeneration     CoverGeneration `json:"cover_generation"`
	DualVoice           bool            `json:"dual_voice"`
	FasterQueue         bool            `json:"faster_queue"`
}

type Usage struct {
	ProjectsCreated int `json:"projects_created"`
}

// Info is the read-only billing snapshot served to the dashboard and the
// billing page. The source of truth is the payment provider; this is
// assembled per request and never mutated locally.
type Info struct {
	PlanID            string             `json:"plan_id"`
	PlanName          string             `json:"plan_name,omitempty"`
	Status            SubscriptionStatus `json:"status"`
	IsAdmin           bool               `json:"is_admin"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
	CurrentPeriodEnd  string             `json:"current_period_end,omitempty"`
	Entitlements      Entitlements       `json:"entitlements"`
	Usage             Usage              `json:"usage"`
}

type Plan struct {
	ID           string
	Name         string
	Entitlements Entitlements
}

func intPtr(n int) *int { return &n }

var plans = map[string]Plan{
	PlanFree: {
		ID:   PlanFree,
		Name: "Free",
		Entitlements: Entitlements{
			MaxProjectsPerMonth: intPtr(1),
			MaxMinutesPerBook:   intPtr(30),
		},
	},
	PlanBasic: {
		ID:   PlanBasic,
		Name: "Basic",
		Entitlements: Entitlements{
			MaxProjectsPerMonth: intPtr(3),
			MaxMinutesPerBook:   intPtr(300),
			CoverGeneration:     CoverGeneration{Enabled: true},
		},
	},
	PlanPro: {
		ID:   PlanPro,
		Name: "Pro",
		Entitlements: Entitlements{
			MaxProjectsPerMonth: intPtr(10),
			MaxMinutesPerBook:   nil,
			FindawayPackage:     true,
			CoverGeneration:     CoverGeneration{Enabled: true},
			DualVoice:           true,
		},
	},
	PlanPremium: {
		ID:   PlanPremium,
		Name: "Premium",
		Entitlements: Entitlements{
			MaxProjectsPerMonth: nil,
			MaxMinutesPerBook:   nil,
			FindawayPackage:     true,
			CoverGeneration:     CoverGeneration{Enabled: true, Premium: true},
			DualVoice:           true,
			FasterQueue:         true,
		},
	},
}

// PlanByID returns the plan for a plan ID, falling back to the free tier for
// unknown IDs so a stale or missing row never breaks the billing view.
func PlanByID(id string) Plan {
	if p, ok := plans[id]; ok {
		return p
	}
	return plans[PlanFree]
}

// LimitReached reports whether the monthly project cap is exhausted. Admins
// and plans without a cap are never limited.
func LimitReached(info Info) bool {
	cap := info.Entitlements.MaxProjectsPerMonth
	return !info.IsAdmin && cap != nil && info.Usage.ProjectsCreated >= *cap
}

// PaidPlanIDs lists the plans purchasable through checkout.
func PaidPlanIDs() []string {
	return []string{PlanBasic, PlanPro, PlanPremium}
}
