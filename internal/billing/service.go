package billing

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/models"
	"audiobook-backend/internal/stripe"
	"audiobook-backend/internal/supabase"
)

// Service assembles billing snapshots and orchestrates the payment provider.
// The provider is the source of truth; the local billing_accounts row is a
// webhook-settled cache of it.
type Service struct {
	cfg          *config.Config
	dbClient     *supabase.DatabaseClient
	stripeClient *stripe.Client
}

func NewService(cfg *config.Config, dbClient *supabase.DatabaseClient, stripeClient *stripe.Client) *Service {
	return &Service{
		cfg:          cfg,
		dbClient:     dbClient,
		stripeClient: stripeClient,
	}
}

// Info builds the read-only billing snapshot for a user. Users without a
// billing account row are free-tier.
func (s *Service) Info(userID uuid.UUID) (Info, error) {
	account, err := s.dbClient.GetBillingAccount(userID)
	if err != nil {
		return Info{}, fmt.Errorf("failed to load billing account: %w", err)
	}

	created, err := s.dbClient.CountJobsCreatedSince(userID, startOfMonth(time.Now().UTC()))
	if err != nil {
		return Info{}, fmt.Errorf("failed to count usage: %w", err)
	}

	return BuildInfo(account, created), nil
}

// BuildInfo maps an account row (nil for free tier) and a usage count onto
// the wire snapshot.
func BuildInfo(account *models.BillingAccount, projectsCreated int) Info {
	info := Info{
		PlanID: PlanFree,
		Status: StatusInactive,
		Usage:  Usage{ProjectsCreated: projectsCreated},
	}

	if account != nil {
		info.PlanID = account.PlanID
		info.Status = SubscriptionStatus(account.Status)
		info.IsAdmin = account.IsAdmin
		info.CancelAtPeriodEnd = account.CancelAtPeriodEnd
		if account.CurrentPeriodEnd.Valid {
			info.CurrentPeriodEnd = account.CurrentPeriodEnd.Time.UTC().Format(time.RFC3339)
		}
	}

	plan := PlanByID(info.PlanID)
	info.PlanID = plan.ID
	info.PlanName = plan.Name
	info.Entitlements = plan.Entitlements

	return info
}

// PortalSession creates a provider-hosted subscription-management session.
func (s *Service) PortalSession(userID uuid.UUID, email string) (string, error) {
	customerID, err := s.ensureCustomer(userID, email)
	if err != nil {
		return "", err
	}

	session, err := s.stripeClient.CreatePortalSession(customerID, s.cfg.BaseURL+"/billing")
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// CheckoutSession creates a subscription checkout session for a paid plan.
func (s *Service) CheckoutSession(userID uuid.UUID, email, planID string) (string, error) {
	priceID := s.cfg.PriceForPlan(planID)
	if priceID == "" {
		return "", fmt.Errorf("unknown or unpurchasable plan: %s", planID)
	}

	customerID, err := s.ensureCustomer(userID, email)
	if err != nil {
		return "", err
	}

	session, err := s.stripeClient.CreateCheckoutSession(
		customerID,
		priceID,
		userID.String(),
		s.cfg.BaseURL+"/billing/success?session_id={CHECKOUT_SESSION_ID}",
		s.cfg.BaseURL+"/pricing",
	)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// ConfirmCheckout is the best-effort post-checkout settlement check: webhook
// delivery is asynchronous relative to the checkout redirect, so if the
// account still looks unsettled this pulls the session from the provider and
// syncs. A not-yet-complete session answers "processing", never an error.
func (s *Service) ConfirmCheckout(userID uuid.UUID, sessionID string) string {
	account, err := s.dbClient.GetBillingAccount(userID)
	if err == nil && account != nil {
		switch SubscriptionStatus(account.Status) {
		case StatusActive, StatusTrialing:
			return "active"
		}
	}

	session, err := s.stripeClient.GetCheckoutSession(sessionID)
	if err != nil {
		log.Printf("checkout confirm: failed to fetch session: %v", err)
		return "processing"
	}

	if !CheckoutSettled(session, userID) {
		return "processing"
	}

	sub, err := s.stripeClient.GetSubscription(session.Subscription)
	if err != nil {
		log.Printf("checkout confirm: failed to fetch subscription: %v", err)
		return "processing"
	}

	if err := s.applySubscription(userID, sub); err != nil {
		log.Printf("checkout confirm: failed to apply subscription: %v", err)
		return "processing"
	}

	return "active"
}

// CheckoutSettled reports whether a checkout session is complete, carries a
// subscription, and belongs to the given user. The session id travels through
// the success-redirect URL, so the client_reference_id ownership check keeps
// one user's session from settling onto another user's account.
func CheckoutSettled(session *stripe.CheckoutSession, userID uuid.UUID) bool {
	return session.Status == "complete" &&
		session.Subscription != "" &&
		session.ClientRefID == userID.String()
}

// SettleCheckoutCompleted handles the checkout.session.completed webhook
// event. The session's client_reference_id carries the user id.
func (s *Service) SettleCheckoutCompleted(session *stripe.CheckoutSession) error {
	userID, err := uuid.Parse(session.ClientRefID)
	if err != nil {
		return fmt.Errorf("invalid client_reference_id: %w", err)
	}
	if session.Subscription == "" {
		return nil
	}

	sub, err := s.stripeClient.GetSubscription(session.Subscription)
	if err != nil {
		return err
	}
	return s.applySubscription(userID, sub)
}

// SettleSubscriptionEvent handles customer.subscription.* webhook events.
// Deleted subscriptions drop the account back to the free tier with a
// canceled status.
func (s *Service) SettleSubscriptionEvent(sub *stripe.Subscription, deleted bool) error {
	account, err := s.dbClient.GetBillingAccountByCustomerID(sub.Customer)
	if err != nil {
		return fmt.Errorf("no billing account for customer %s: %w", sub.Customer, err)
	}

	if deleted {
		return s.dbClient.ApplySubscription(
			account.UserID, PlanFree, string(StatusCanceled),
			false, nil, sub.Customer, "",
		)
	}
	return s.applySubscription(account.UserID, sub)
}

func (s *Service) applySubscription(userID uuid.UUID, sub *stripe.Subscription) error {
	planID := PlanFree
	if len(sub.Items.Data) > 0 {
		if mapped := s.cfg.PlanForPrice(sub.Items.Data[0].Price.ID); mapped != "" {
			planID = mapped
		}
	}

	var periodEnd *time.Time
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	return s.dbClient.ApplySubscription(
		userID, planID, mapStripeStatus(sub.Status),
		sub.CancelAtPeriodEnd, periodEnd, sub.Customer, sub.ID,
	)
}

func (s *Service) ensureCustomer(userID uuid.UUID, email string) (string, error) {
	account, err := s.dbClient.GetBillingAccount(userID)
	if err != nil {
		return "", err
	}
	if account != nil && account.StripeCustomerID.Valid && account.StripeCustomerID.String != "" {
		return account.StripeCustomerID.String, nil
	}

	customer, err := s.stripeClient.CreateCustomer(email, userID.String())
	if err != nil {
		return "", err
	}
	if err := s.dbClient.EnsureBillingAccount(userID, customer.ID); err != nil {
		return "", err
	}
	return customer.ID, nil
}

func mapStripeStatus(status string) string {
	switch status {
	case "active", "trialing", "past_due", "canceled":
		return status
	default:
		return string(StatusInactive)
	}
}

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
