package billing_test

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/models"
)

func TestBuildInfo_NoAccountIsFreeTier(t *testing.T) {
	info := billing.BuildInfo(nil, 0)

	assert.Equal(t, billing.PlanFree, info.PlanID)
	assert.Equal(t, "Free", info.PlanName)
	assert.Equal(t, billing.StatusInactive, info.Status)
	assert.False(t, info.IsAdmin)
	if assert.NotNil(t, info.Entitlements.MaxProjectsPerMonth) {
		assert.Equal(t, 1, *info.Entitlements.MaxProjectsPerMonth)
	}
	if assert.NotNil(t, info.Entitlements.MaxMinutesPerBook) {
		assert.Equal(t, 30, *info.Entitlements.MaxMinutesPerBook)
	}
}

func TestBuildInfo_ActiveSubscription(t *testing.T) {
	periodEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	account := &models.BillingAccount{
		PlanID:            billing.PlanPremium,
		Status:            "active",
		CancelAtPeriodEnd: true,
		CurrentPeriodEnd:  sql.NullTime{Time: periodEnd, Valid: true},
	}

	info := billing.BuildInfo(account, 7)

	assert.Equal(t, billing.PlanPremium, info.PlanID)
	assert.Equal(t, "Premium", info.PlanName)
	assert.Equal(t, billing.StatusActive, info.Status)
	assert.True(t, info.CancelAtPeriodEnd)
	assert.Equal(t, "2026-09-01T00:00:00Z", info.CurrentPeriodEnd)
	assert.Equal(t, 7, info.Usage.ProjectsCreated)
	assert.Nil(t, info.Entitlements.MaxProjectsPerMonth)
}

func TestBuildInfo_UnknownPlanFallsBackToFree(t *testing.T) {
	account := &models.BillingAccount{
		PlanID: "enterprise-legacy",
		Status: "active",
	}

	info := billing.BuildInfo(account, 0)

	assert.Equal(t, billing.PlanFree, info.PlanID)
	assert.Equal(t, "Free", info.PlanName)
}

func TestPlanByID_Unknown(t *testing.T) {
	plan := billing.PlanByID("no-such-plan")
	assert.Equal(t, billing.PlanFree, plan.ID)
}

func TestCoverGeneration_MarshalJSON(t *testing.T) {
	none, _ := json.Marshal(billing.CoverGeneration{})
	assert.Equal(t, "false", string(none))

	enabled, _ := json.Marshal(billing.CoverGeneration{Enabled: true})
	assert.Equal(t, "true", string(enabled))

	premium, _ := json.Marshal(billing.CoverGeneration{Enabled: true, Premium: true})
	assert.Equal(t, `"premium"`, string(premium))
}

func TestCoverGeneration_UnmarshalJSON(t *testing.T) {
	var c billing.CoverGeneration

	assert.NoError(t, json.Unmarshal([]byte(`"premium"`), &c))
	assert.True(t, c.Premium)
	assert.True(t, c.Enabled)

	assert.NoError(t, json.Unmarshal([]byte(`true`), &c))
	assert.True(t, c.Enabled)
	assert.False(t, c.Premium)

	assert.NoError(t, json.Unmarshal([]byte(`false`), &c))
	assert.False(t, c.Enabled)
	assert.False(t, c.Premium)
}

func TestLimitReached(t *testing.T) {
	// Free tier caps at 1 project per month.
	assert.False(t, billing.LimitReached(billing.BuildInfo(nil, 0)))
	assert.True(t, billing.LimitReached(billing.BuildInfo(nil, 1)))
	assert.True(t, billing.LimitReached(billing.BuildInfo(nil, 2)))

	basic := &models.BillingAccount{PlanID: billing.PlanBasic, Status: "active"}
	assert.False(t, billing.LimitReached(billing.BuildInfo(basic, 2)))
	assert.True(t, billing.LimitReached(billing.BuildInfo(basic, 3)))

	// No cap on premium.
	premium := &models.BillingAccount{PlanID: billing.PlanPremium, Status: "active"}
	assert.False(t, billing.LimitReached(billing.BuildInfo(premium, 1000)))

	// Admins bypass the cap entirely.
	admin := &models.BillingAccount{PlanID: billing.PlanFree, IsAdmin: true}
	assert.False(t, billing.LimitReached(billing.BuildInfo(admin, 50)))
}

func TestPaidPlanIDs(t *testing.T) {
	ids := billing.PaidPlanIDs()
	assert.Equal(t, []string{billing.PlanBasic, billing.PlanPro, billing.PlanPremium}, ids)
	assert.NotContains(t, ids, billing.PlanFree)
}
