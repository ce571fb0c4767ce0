package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/models"
)

func TestActionFor(t *testing.T) {
	free := billing.BuildInfo(nil, 0)
	assert.Equal(t, billing.ActionUpgrade, billing.ActionFor(free))

	pro := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanPro, Status: "active"}, 0)
	assert.Equal(t, billing.ActionManage, billing.ActionFor(pro))

	pastDue := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "past_due"}, 0)
	assert.Equal(t, billing.ActionManage, billing.ActionFor(pastDue))

	admin := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanPro, Status: "active", IsAdmin: true}, 0)
	assert.Equal(t, billing.ActionNone, billing.ActionFor(admin))

	// Admins see no billing action even on the free tier.
	freeAdmin := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanFree, IsAdmin: true}, 0)
	assert.Equal(t, billing.ActionNone, billing.ActionFor(freeAdmin))
}

func TestStatusSentence(t *testing.T) {
	free := billing.BuildInfo(nil, 0)
	assert.Equal(t, "You are on the free plan.", billing.StatusSentence(free))

	active := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanPro, Status: "active"}, 0)
	assert.Equal(t, "Your Pro subscription is active.", billing.StatusSentence(active))

	trialing := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "trialing"}, 0)
	assert.Equal(t, "You are trialing the Basic plan.", billing.StatusSentence(trialing))

	pastDue := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "past_due"}, 0)
	assert.Contains(t, billing.StatusSentence(pastDue), "payment failed")

	canceled := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "canceled"}, 0)
	assert.Contains(t, billing.StatusSentence(canceled), "canceled")

	// is_admin wins regardless of subscription status.
	admin := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "past_due", IsAdmin: true}, 0)
	assert.Equal(t, "You have an admin account with full access.", billing.StatusSentence(admin))
}

func TestProjectsBanner(t *testing.T) {
	free := billing.BuildInfo(nil, 1)
	assert.Equal(t, "1 / 1 projects this month", billing.ProjectsBanner(free))

	basic := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanBasic, Status: "active"}, 2)
	assert.Equal(t, "2 / 3 projects this month", billing.ProjectsBanner(basic))

	premium := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanPremium, Status: "active"}, 42)
	assert.Equal(t, "Unlimited projects", billing.ProjectsBanner(premium))
}

func TestMinutesLabel(t *testing.T) {
	free := billing.BuildInfo(nil, 0)
	assert.Equal(t, "30 minutes per book", billing.MinutesLabel(free))

	pro := billing.BuildInfo(&models.BillingAccount{PlanID: billing.PlanPro, Status: "active"}, 0)
	assert.Equal(t, "Unlimited", billing.MinutesLabel(pro))
}
