package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/handlers"
	"audiobook-backend/internal/services"
)

func webhookRouter(cfg *config.Config, jobService *services.JobService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewWebhookHandler(cfg, nil, jobService)
	router := gin.New()
	router.POST("/webhooks/stripe", handler.StripeWebhook)
	router.POST("/webhooks/converter", handler.ConverterWebhook)
	return router
}

func stripeSign(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhook_NotConfigured(t *testing.T) {
	router := webhookRouter(&config.Config{}, nil)

	req, _ := http.NewRequest("POST", "/webhooks/stripe", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStripeWebhook_BadSignature(t *testing.T) {
	router := webhookRouter(&config.Config{StripeWebhookSecret: "whsec_test"}, nil)

	payload := []byte(`{"type":"checkout.session.completed"}`)
	req, _ := http.NewRequest("POST", "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSign(payload, "whsec_wrong", time.Now().Unix()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid signature")
}

func TestStripeWebhook_UnknownEventAcknowledged(t *testing.T) {
	secret := "whsec_test"
	router := webhookRouter(&config.Config{StripeWebhookSecret: secret}, nil)

	payload := []byte(`{"type":"invoice.finalized","data":{"object":{}}}`)
	req, _ := http.NewRequest("POST", "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSign(payload, secret, time.Now().Unix()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConverterWebhook_NotConfigured(t *testing.T) {
	router := webhookRouter(&config.Config{}, services.NewJobService(nil, nil, nil, nil))

	req, _ := http.NewRequest("POST", "/webhooks/converter", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// Without a database there is no job service; the callback must be refused,
// not dispatched into a nil service.
func TestConverterWebhook_NoJobService(t *testing.T) {
	router := webhookRouter(&config.Config{ConvertWebhookToken: "secret-token"}, nil)

	body := []byte(`{"event":"job.processing","job_uuid":"abc-123"}`)
	req, _ := http.NewRequest("POST", "/webhooks/converter", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Token", "secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestConverterWebhook_InvalidToken(t *testing.T) {
	router := webhookRouter(&config.Config{ConvertWebhookToken: "secret-token"}, services.NewJobService(nil, nil, nil, nil))

	req, _ := http.NewRequest("POST", "/webhooks/converter", bytes.NewReader([]byte("{}")))
	req.Header.Set("X-Webhook-Token", "wrong-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConverterWebhook_InvalidPayload(t *testing.T) {
	router := webhookRouter(&config.Config{ConvertWebhookToken: "secret-token"}, services.NewJobService(nil, nil, nil, nil))

	req, _ := http.NewRequest("POST", "/webhooks/converter", bytes.NewReader([]byte(`{"event":"job.completed"}`)))
	req.Header.Set("X-Webhook-Token", "secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConverterWebhook_UnknownEvent(t *testing.T) {
	router := webhookRouter(&config.Config{ConvertWebhookToken: "secret-token"}, services.NewJobService(nil, nil, nil, nil))

	body := []byte(`{"event":"job.paused","job_uuid":"abc-123"}`)
	req, _ := http.NewRequest("POST", "/webhooks/converter", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Token", "secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown event type")
}
