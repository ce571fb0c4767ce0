package billing

import "fmt"

// PlanAction is the billing call-to-action a page should render.
type PlanAction string

const (
	ActionUpgrade PlanAction = "upgrade"
	ActionManage  PlanAction = "manage"
	ActionNone    PlanAction = "none"
)

// ActionFor resolves the billing call-to-action: admins see neither button,
// free-tier users see an upgrade link, everyone else manages their
// subscription through the provider portal.
func ActionFor(info Info) PlanAction {
	if info.IsAdmin {
		return ActionNone
	}
	if info.PlanID == PlanFree {
		return ActionUpgrade
	}
	return ActionManage
}

// StatusSentence maps the subscription status to the human sentence shown on
// the billing page. is_admin short-circuits regardless of status.
func StatusSentence(info Info) string {
	if info.IsAdmin {
		return "You have an admin account with full access."
	}
	switch info.Status {
	case StatusActive:
		return fmt.Sprintf("Your %s subscription is active.", info.PlanName)
	case StatusTrialing:
		return fmt.Sprintf("You are trialing the %s plan.", info.PlanName)
	case StatusPastDue:
		return "Your last payment failed. Please update your payment method."
	case StatusCanceled:
		return "Your subscription has been canceled."
	default:
		return "You are on the free plan."
	}
}

// ProjectsBanner renders the dashboard usage line: "Unlimited projects" when
// the cap is absent, otherwise "k / N projects this month".
func ProjectsBanner(info Info) string {
	cap := info.Entitlements.MaxProjectsPerMonth
	if cap == nil {
		return "Unlimited projects"
	}
	return fmt.Sprintf("%d / %d projects this month", info.Usage.ProjectsCreated, *cap)
}

// MinutesLabel renders a per-book minutes cap, "Unlimited" when absent.
func MinutesLabel(info Info) string {
	cap := info.Entitlements.MaxMinutesPerBook
	if cap == nil {
		return "Unlimited"
	}
	return fmt.Sprintf("%d minutes per book", *cap)
}
