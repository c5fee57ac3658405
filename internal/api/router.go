package api

import (
	"github.com/go-chi/chi/v5"

	"Exchange/internal/config"
	"Exchange/internal/handlers"
	"Exchange/internal/payments"
	"Exchange/internal/session"
)

// ApiDependencies содержит зависимости для обработчиков API.
// ApiDependencies contains the API handlers' dependencies.
type ApiDependencies struct {
	Config         *config.Config
	SecretKey      string
	Bot            *handlers.BotHandler
	SessionManager *session.SessionManager
	Payments       payments.Initiator
}

// SetupRoutes настраивает все маршруты для API.
// SetupRoutes wires up all API routes.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Get("/", deps.GetCapabilities)
	r.Get("/health", deps.GetHealth)

	// Коллбэк процессора публичен: его подлинность мы не проверяем, он
	// только журналируется.
	r.Post("/webhook/payment-status", deps.HandlePaymentStatus)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.SecretKey))
		r.Post("/webhook/mini-app-transaction", deps.HandleMiniAppTransaction)
	})
}
