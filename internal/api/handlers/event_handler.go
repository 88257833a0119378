package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/api/dto"
	"github.com/VechkanovVV/webhook-repo/internal/service"
)

// EventHandler отдаёт последние события.
type EventHandler struct {
	responder
	EventService *service.EventService
}

// NewEventHandler возвращает новый EventHandler.
func NewEventHandler(eventService *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		responder:    responder{logger: logger},
		EventService: eventService,
	}
}

// List обрабатывает GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, appErr := h.EventService.Recent(r.Context())
	if appErr != nil {
		h.respondAppError(w, appErr)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.FromStorageEventList(events))
}
