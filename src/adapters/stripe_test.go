package adapters

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/m1guelpf/chatgpt-paywall/src/entities"
)

const testWebhookSecret = "whsec_test_secret"

func eventPayload(eventType, apiVersion, clientReferenceID string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_123",
  "object": "event",
  "api_version": %q,
  "type": %q,
  "data": {
    "object": {
      "id": "cs_test_123",
      "object": "checkout.session",
      "client_reference_id": %q
    }
  }
}`, apiVersion, eventType, clientReferenceID))
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	}).Header
}

func TestStripeVerifier_CompletedCheckout(t *testing.T) {
	// verification needs only the webhook secret, never an API key
	require.Empty(t, stripe.Key)

	payload := eventPayload(entities.CheckoutSessionCompleted, stripe.APIVersion, "conv-42")
	verifier := NewStripeVerifier(testWebhookSecret, false)

	event, err := verifier.Verify(payload, sign(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, entities.CheckoutSessionCompleted, event.Type)
	assert.Equal(t, "conv-42", event.ClientReferenceID)
}

func TestStripeVerifier_WrongSecret(t *testing.T) {
	payload := eventPayload(entities.CheckoutSessionCompleted, stripe.APIVersion, "conv-42")
	verifier := NewStripeVerifier(testWebhookSecret, true)

	_, err := verifier.Verify(payload, sign(payload, "whsec_forged"))
	assert.Error(t, err)
}

func TestStripeVerifier_TamperedPayload(t *testing.T) {
	payload := eventPayload(entities.CheckoutSessionCompleted, stripe.APIVersion, "conv-42")
	header := sign(payload, testWebhookSecret)
	tampered := eventPayload(entities.CheckoutSessionCompleted, stripe.APIVersion, "conv-attacker")

	_, err := NewStripeVerifier(testWebhookSecret, true).Verify(tampered, header)
	assert.Error(t, err)
}

func TestStripeVerifier_MissingHeader(t *testing.T) {
	payload := eventPayload(entities.CheckoutSessionCompleted, stripe.APIVersion, "conv-42")

	_, err := NewStripeVerifier(testWebhookSecret, true).Verify(payload, "")
	assert.Error(t, err)
}

func TestStripeVerifier_APIVersionMismatch(t *testing.T) {
	payload := eventPayload("payment_intent.succeeded", "2020-08-27", "")
	header := sign(payload, testWebhookSecret)

	_, err := NewStripeVerifier(testWebhookSecret, false).Verify(payload, header)
	assert.Error(t, err)

	event, err := NewStripeVerifier(testWebhookSecret, true).Verify(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Empty(t, event.ClientReferenceID)
}
