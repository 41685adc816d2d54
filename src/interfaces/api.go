package interfaces

import (
	"context"

	"github.com/m1guelpf/chatgpt-paywall/src/entities"
)

// StatusStore is the payment-status ledger keyed by conversation identifier.
type StatusStore interface {
	SetStatus(ctx context.Context, conversationID, status string) error
	// GetStatus reports found=false with a nil error when the key is unset.
	GetStatus(ctx context.Context, conversationID string) (value string, found bool, err error)
}

type EventVerifier interface {
	Verify(payload []byte, signature string) (*entities.WebhookEvent, error)
}
