package entities

import "fmt"

const (
	// StatusPaid is the only status value that marks a conversation as paid.
	StatusPaid = "paid"

	CheckoutSessionCompleted = "checkout.session.completed"
)

// WebhookEvent is a verified provider event reduced to the fields the paywall reads.
type WebhookEvent struct {
	ID                string
	Type              string
	ClientReferenceID string
}

type PaymentLink struct {
	ConversationID string
	URL            string
}

// Instruction is the text the agent relays verbatim to the end user.
func (l PaymentLink) Instruction() string {
	return fmt.Sprintf("Tell the user to click here: %s, and type 'continue' when they're done.", l.URL)
}

type PaidResponse struct {
	Paid bool `json:"paid"`
}

type WebhookAck struct {
	Status string `json:"status"`
}

type WebhookError struct {
	Error string `json:"error"`
}

type ErrorDetail struct {
	Detail string `json:"detail"`
}
