package handlers

import (
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/mailer"
	"audiobook-backend/internal/models"
)

// Matches local@domain.tld; intentionally loose beyond that.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ContactHandler struct {
	config       *config.Config
	mailerClient *mailer.Client
}

func NewContactHandler(cfg *config.Config, mailerClient *mailer.Client) *ContactHandler {
	return &ContactHandler{
		config:       cfg,
		mailerClient: mailerClient,
	}
}

// Relay validates a contact-form submission and forwards it as one HTML email
// to the configured support address. No retry; duplicate submissions produce
// duplicate emails.
func (h *ContactHandler) Relay(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email is required"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "subject is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}
	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "please enter a valid email address"})
		return
	}

	// Fail closed before any outbound call when the server-held key is absent.
	if !h.mailerClient.Configured() {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "contact service not configured"})
		return
	}

	htmlBody := mailer.ContactEmailHTML(req.Name, req.Email, req.Subject, req.Message)
	err := h.mailerClient.Send(
		h.config.ContactFromEmail,
		h.config.ContactToEmail,
		"[Contact] "+req.Subject,
		htmlBody,
		req.Email,
	)
	if err != nil {
		log.Printf("contact relay: failed to send email: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to send message"})
		return
	}

	c.JSON(http.StatusOK, models.ContactResponse{
		Success: true,
		Message: "Thanks for reaching out. We'll get back to you soon.",
	})
}
