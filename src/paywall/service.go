package paywall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m1guelpf/chatgpt-paywall/src/entities"
	"github.com/m1guelpf/chatgpt-paywall/src/interfaces"
)

var (
	ErrMissingConversationID = errors.New("missing conversation id")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
)

// Service ties a conversation to a Stripe payment link and answers whether
// it has been paid. It keeps no state of its own.
type Service struct {
	PaymentLink string
	Store       interfaces.StatusStore
	Verifier    interfaces.EventVerifier
	Logger      *slog.Logger
}

func NewService(paymentLink string, store interfaces.StatusStore, verifier interfaces.EventVerifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		PaymentLink: paymentLink,
		Store:       store,
		Verifier:    verifier,
		Logger:      logger,
	}
}

// IssueLink appends the conversation id to the payment link as the checkout's
// client_reference_id. The id is carried verbatim.
func (s *Service) IssueLink(conversationID string) (entities.PaymentLink, error) {
	if conversationID == "" {
		return entities.PaymentLink{}, ErrMissingConversationID
	}

	sep := "?"
	if strings.Contains(s.PaymentLink, "?") {
		sep = "&"
	}

	return entities.PaymentLink{
		ConversationID: conversationID,
		URL:            fmt.Sprintf("%s%sclient_reference_id=%s", s.PaymentLink, sep, conversationID),
	}, nil
}

// HandleWebhook verifies a Stripe delivery and records completed checkouts as
// paid. A store failure is returned so the delivery is not acknowledged and
// Stripe redelivers it; writing "paid" twice is harmless.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.Verifier.Verify(payload, signature)
	if err != nil {
		s.Logger.WarnContext(ctx, "webhook signature verification failed", "error", err)
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if event.Type != entities.CheckoutSessionCompleted {
		s.Logger.DebugContext(ctx, "ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}

	if event.ClientReferenceID == "" {
		s.Logger.WarnContext(ctx, "checkout completed without client reference", "event_id", event.ID)
		return nil
	}

	if err := s.Store.SetStatus(ctx, event.ClientReferenceID, entities.StatusPaid); err != nil {
		s.Logger.ErrorContext(ctx, "failed to store payment status",
			"event_id", event.ID,
			"conversation_id", event.ClientReferenceID,
			"error", err,
		)
		return err
	}

	s.Logger.InfoContext(ctx, "payment status updated",
		"event_id", event.ID,
		"conversation_id", event.ClientReferenceID,
		"status", entities.StatusPaid,
	)
	return nil
}

// HasPaid is fail-closed: a store that cannot be reached or answers with an
// error status reads as not paid, and the failure is logged.
func (s *Service) HasPaid(ctx context.Context, conversationID string) (bool, error) {
	if conversationID == "" {
		return false, ErrMissingConversationID
	}

	value, found, err := s.Store.GetStatus(ctx, conversationID)
	if err != nil {
		s.Logger.WarnContext(ctx, "failed to read payment status", "conversation_id", conversationID, "error", err)
		return false, nil
	}

	return found && value == entities.StatusPaid, nil
}
