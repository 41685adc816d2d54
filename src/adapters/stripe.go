package adapters

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/m1guelpf/chatgpt-paywall/src/entities"
)

// StripeSignatureHeader carries the signature Stripe attaches to webhook deliveries.
const StripeSignatureHeader = "Stripe-Signature"

type StripeVerifier struct {
	Secret string
	// IgnoreAPIVersionMismatch accepts events rendered for an API version
	// other than the one this SDK was generated against.
	IgnoreAPIVersionMismatch bool
}

func NewStripeVerifier(secret string, ignoreAPIVersionMismatch bool) *StripeVerifier {
	return &StripeVerifier{
		Secret:                   secret,
		IgnoreAPIVersionMismatch: ignoreAPIVersionMismatch,
	}
}

func (sv *StripeVerifier) Verify(payload []byte, signature string) (*entities.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, sv.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: sv.IgnoreAPIVersionMismatch,
	})
	if err != nil {
		return nil, err
	}

	return toWebhookEvent(event), nil
}

func toWebhookEvent(event stripe.Event) *entities.WebhookEvent {
	out := &entities.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data != nil {
		out.ClientReferenceID = event.GetObjectValue("client_reference_id")
	}
	return out
}
