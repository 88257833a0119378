// Package router регистрирует HTTP-маршруты и возвращает http.Handler.
package router

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/VechkanovVV/webhook-repo/internal/api/handlers"
	"github.com/VechkanovVV/webhook-repo/internal/api/middleware"
)

// NewRouter создаёт HTTP router с зарегистрированными маршрутами.
// live может быть nil - тогда /ws не регистрируется; limiter nil отключает ограничение на /webhook.
func NewRouter(
	webhookHandler *handlers.WebhookHandler,
	eventHandler *handlers.EventHandler,
	live http.Handler,
	limiter *rate.Limiter,
	logger *zap.Logger,
) http.Handler {

	mux := http.NewServeMux()

	mux.Handle("POST /webhook", middleware.RateLimit(limiter, http.HandlerFunc(webhookHandler.Receive)))
	mux.HandleFunc("GET /api/events", eventHandler.List)

	if live != nil {
		mux.Handle("GET /ws", live)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Warn("failed to write health response", zap.Error(err))
		}
	})

	return middleware.Logging(logger, middleware.CORS(mux))
}
