package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/api/dto"
	"github.com/VechkanovVV/webhook-repo/internal/apperrors"
)

// responder пишет JSON-ответы и логирует ошибки кодирования.
type responder struct {
	logger *zap.Logger
}

// respondJSON отправляет JSON-ответ с заданным статусом.
func (rs responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// respondError отправляет ошибку в формате ErrorResponse.
func (rs responder) respondError(w http.ResponseWriter, status int, code, message string) {
	rs.respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondAppError маппит *apperrors.AppError в HTTP-ответ.
func (rs responder) respondAppError(w http.ResponseWriter, err *apperrors.AppError) {
	rs.respondError(w, err.HTTPStatus(), string(err.Code), err.Message)
}
