package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/middleware"
	"audiobook-backend/internal/models"
)

type BillingHandler struct {
	config         *config.Config
	billingService *billing.Service
}

func NewBillingHandler(cfg *config.Config, billingService *billing.Service) *BillingHandler {
	return &BillingHandler{
		config:         cfg,
		billingService: billingService,
	}
}

// GetInfo returns the user's billing snapshot. Failures surface as a fixed
// generic message; the specific cause is only logged.
func (h *BillingHandler) GetInfo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	info, err := h.billingService.Info(userID)
	if err != nil {
		log.Printf("billing: failed to load info: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load billing info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// CreatePortalSession opens a provider-hosted subscription-management portal.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	if h.config.StripeSecretKey == "" {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "billing service not configured"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	email, _ := c.Get(middleware.UserEmailKey)
	emailStr, _ := email.(string)

	url, err := h.billingService.PortalSession(userID, emailStr)
	if err != nil {
		log.Printf("billing: failed to create portal session: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to open billing portal"})
		return
	}

	c.JSON(http.StatusOK, models.PortalSessionResponse{URL: url})
}

// CreateCheckoutSession starts a subscription checkout for a paid plan.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	if h.config.StripeSecretKey == "" {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "billing service not configured"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlanID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "plan_id is required"})
		return
	}

	email, _ := c.Get(middleware.UserEmailKey)
	emailStr, _ := email.(string)

	url, err := h.billingService.CheckoutSession(userID, emailStr, req.PlanID)
	if err != nil {
		log.Printf("billing: failed to create checkout session: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to start checkout"})
		return
	}

	c.JSON(http.StatusOK, models.CheckoutSessionResponse{URL: url})
}

// ConfirmCheckout is the post-checkout landing check. Webhook settlement is
// asynchronous relative to the redirect, so an unsettled account answers
// "processing" rather than an error; the session id is echoed truncated for
// display only.
func (h *BillingHandler) ConfirmCheckout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "session_id is required"})
		return
	}

	status := h.billingService.ConfirmCheckout(userID, sessionID)

	display := sessionID
	if len(display) > 12 {
		display = display[:12] + "..."
	}

	c.JSON(http.StatusOK, models.CheckoutConfirmResponse{
		Status:    status,
		SessionID: display,
	})
}
