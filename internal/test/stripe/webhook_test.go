package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"audiobook-backend/internal/stripe"
)

func signPayload(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestConstructEvent_ValidSignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1"}}}`)
	header := signPayload(payload, secret, time.Now().Unix())

	event, err := stripe.ConstructEvent(payload, header, secret)

	assert.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "customer.subscription.updated", event.Type)
	assert.JSONEq(t, `{"id":"sub_1"}`, string(event.Data.Object))
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(payload, "whsec_other", time.Now().Unix())

	_, err := stripe.ConstructEvent(payload, header, "whsec_test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching signature")
}

func TestConstructEvent_MissingHeader(t *testing.T) {
	_, err := stripe.ConstructEvent([]byte(`{}`), "", "whsec_test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing signature header")
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"amount":100}`)
	header := signPayload(payload, secret, time.Now().Unix())

	err := stripe.VerifySignature([]byte(`{"amount":99999}`), header, secret, stripe.DefaultTolerance)

	assert.Error(t, err)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{}`)
	stale := time.Now().Add(-10 * time.Minute).Unix()
	header := signPayload(payload, secret, stale)

	err := stripe.VerifySignature(payload, header, secret, stripe.DefaultTolerance)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside tolerance")
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	err := stripe.VerifySignature([]byte(`{}`), "v1=deadbeef", "whsec_test", stripe.DefaultTolerance)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed signature header")
}

// Stripe sends multiple v1 entries during secret rotation; any match passes.
func TestVerifySignature_MultipleSignatures(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{}`)
	ts := time.Now().Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	good := hex.EncodeToString(mac.Sum(nil))
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "0000", good)

	err := stripe.VerifySignature(payload, header, secret, stripe.DefaultTolerance)

	assert.NoError(t, err)
}
