package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/models"
	"audiobook-backend/internal/services"
	"audiobook-backend/internal/stripe"
)

// WebhookHandler receives callbacks from the payment provider and the
// conversion service. Both routes sit outside the auth group; each one
// authenticates the caller its own way (signature check, shared token).
type WebhookHandler struct {
	config         *config.Config
	billingService *billing.Service
	jobService     *services.JobService
}

func NewWebhookHandler(cfg *config.Config, billingService *billing.Service, jobService *services.JobService) *WebhookHandler {
	return &WebhookHandler{
		config:         cfg,
		billingService: billingService,
		jobService:     jobService,
	}
}

type converterEvent struct {
	Event        string `json:"event"`
	JobUUID      string `json:"job_uuid"`
	ErrorMessage string `json:"error_message"`
}

// StripeWebhook settles subscription state from payment provider events.
// Settlement happens synchronously so a failure returns non-2xx and the
// provider retries the delivery.
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	if h.config.StripeWebhookSecret == "" {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "webhook not configured"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read request body"})
		return
	}

	event, err := stripe.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.config.StripeWebhookSecret)
	if err != nil {
		log.Printf("stripe webhook: signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "malformed event payload"})
			return
		}
		if err := h.billingService.SettleCheckoutCompleted(&session); err != nil {
			log.Printf("stripe webhook: failed to settle checkout %s: %v", session.ID, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process event"})
			return
		}

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "malformed event payload"})
			return
		}
		deleted := event.Type == "customer.subscription.deleted"
		if err := h.billingService.SettleSubscriptionEvent(&sub, deleted); err != nil {
			log.Printf("stripe webhook: failed to settle subscription event %s: %v", event.Type, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process event"})
			return
		}

	default:
		// Unrecognized events are acknowledged so the provider stops retrying.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// ConverterWebhook receives job lifecycle callbacks from the conversion
// service, authenticated by a shared token header.
func (h *WebhookHandler) ConverterWebhook(c *gin.Context) {
	if h.config.ConvertWebhookToken == "" {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "webhook not configured"})
		return
	}
	// Without DATABASE_URL the job service is never constructed; refuse the
	// callback instead of dispatching into a nil service.
	if h.jobService == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "webhook not configured"})
		return
	}

	token := c.GetHeader("X-Webhook-Token")
	if token != h.config.ConvertWebhookToken {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid webhook token"})
		return
	}

	var event converterEvent
	if err := c.ShouldBindJSON(&event); err != nil || event.JobUUID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	switch event.Event {
	case "job.processing":
		h.jobService.HandleJobProcessing(event.JobUUID)
	case "job.completed":
		// Output download and storage upload are slow; run them off the
		// request so the converter gets its ack promptly.
		go h.jobService.HandleJobCompleted(event.JobUUID)
	case "job.failed":
		go h.jobService.HandleJobFailed(event.JobUUID, event.ErrorMessage)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown event type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
