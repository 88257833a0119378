// Package handlers содержит HTTP-обработчики
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/api/dto"
	"github.com/VechkanovVV/webhook-repo/internal/apperrors"
	"github.com/VechkanovVV/webhook-repo/internal/normalizer"
	"github.com/VechkanovVV/webhook-repo/internal/service"
)

// Заголовки, которые GitHub добавляет к каждому уведомлению.
const (
	HeaderEvent    = "X-GitHub-Event"
	HeaderDelivery = "X-GitHub-Delivery"
)

// MessageRecorded - ответ на сохранённое событие.
const MessageRecorded = "Event recorded successfully"

// WebhookHandler принимает уведомления GitHub.
type WebhookHandler struct {
	responder
	EventService *service.EventService
	maxBodyBytes int64
}

// NewWebhookHandler возвращает новый WebhookHandler.
func NewWebhookHandler(eventService *service.EventService, maxBodyBytes int64, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		responder:    responder{logger: logger},
		EventService: eventService,
		maxBodyBytes: maxBodyBytes,
	}
}

// Receive обрабатывает POST /webhook
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondAppError(w, apperrors.New(apperrors.ErrPayloadTooLarge))
			return
		}
		h.respondError(w, http.StatusBadRequest, string(apperrors.ErrInvalidRequest), "failed to read body")
		return
	}

	kind := r.Header.Get(HeaderEvent)
	res, appErr := h.EventService.Record(r.Context(), service.Notification{
		Kind:       kind,
		DeliveryID: r.Header.Get(HeaderDelivery),
		Body:       body,
	})
	if appErr != nil {
		h.respondAppError(w, appErr)
		return
	}

	if res.Decision == normalizer.Ignored {
		h.respondJSON(w, http.StatusOK, dto.MessageResponse{Message: ignoredMessage(res)})
		return
	}

	ev := dto.FromStorageEvent(res.Event)
	h.respondJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: MessageRecorded,
		Event:   &ev,
	})
}

func ignoredMessage(res normalizer.Result) string {
	switch res.Reason {
	case normalizer.ReasonUnhandledSubAction:
		return fmt.Sprintf("Ignored PR action: %s", res.Detail)
	case normalizer.ReasonUnsupportedKind:
		return fmt.Sprintf("Event %s received but ignored", res.Detail)
	default:
		return "Payload processed, but no event to record"
	}
}
