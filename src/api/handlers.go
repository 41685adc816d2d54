package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/m1guelpf/chatgpt-paywall/src/adapters"
	"github.com/m1guelpf/chatgpt-paywall/src/entities"
	"github.com/m1guelpf/chatgpt-paywall/src/paywall"
)

// Stripe documents 64 KiB as the upper bound for webhook payloads.
const maxWebhookBody = 65536

const missingConversationDetail = "Missing openai-conversation-id header"

type Handler struct {
	Service *paywall.Service
	Logger  *slog.Logger
}

func (h *Handler) GetPaymentURL(w http.ResponseWriter, r *http.Request) {
	link, err := h.Service.IssueLink(r.Header.Get(ConversationHeader))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, entities.ErrorDetail{Detail: missingConversationDetail})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, link.Instruction()); err != nil {
		h.logWriteError(r, err)
	}
}

// StripeWebhook acknowledges every verified delivery with 200. Signature
// failures are also answered with 200 and an error field so Stripe does not
// keep redelivering a payload that can never verify.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.Logger.WarnContext(r.Context(), "failed to read webhook body",
			"request_id", RequestIDFrom(r.Context()),
			"error", err,
		)
		h.writeJSON(w, r, http.StatusOK, entities.WebhookError{Error: err.Error()})
		return
	}

	err = h.Service.HandleWebhook(r.Context(), payload, r.Header.Get(adapters.StripeSignatureHeader))
	switch {
	case err == nil:
		h.writeJSON(w, r, http.StatusOK, entities.WebhookAck{Status: "success"})
	case errors.Is(err, paywall.ErrInvalidSignature):
		h.writeJSON(w, r, http.StatusOK, entities.WebhookError{Error: err.Error()})
	default:
		h.writeJSON(w, r, http.StatusInternalServerError, entities.ErrorDetail{Detail: "Failed to store payment status"})
	}
}

func (h *Handler) HasUserPaid(w http.ResponseWriter, r *http.Request) {
	paid, err := h.Service.HasPaid(r.Context(), r.Header.Get(ConversationHeader))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, entities.ErrorDetail{Detail: missingConversationDetail})
		return
	}

	h.writeJSON(w, r, http.StatusOK, entities.PaidResponse{Paid: paid})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logWriteError(r, err)
	}
}

func (h *Handler) logWriteError(r *http.Request, err error) {
	h.Logger.WarnContext(r.Context(), "failed to write response",
		"request_id", RequestIDFrom(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
}
