package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"ambassadorhub/internal/delivery/http/controllers"
	"ambassadorhub/internal/delivery/http/middleware"
	"ambassadorhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Admin routes require an admin token; the remaining protected routes accept
// any authenticated user.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	creditController *controllers.CreditController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/login/request", authController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login/verify", authController.VerifyLoginCode)

	// Self-service
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateMe))
	mux.HandleFunc("GET /registrations", auth(registrationController.ListOwn))

	// User directory (admin)
	mux.HandleFunc("POST /users", admin(userController.Invite))
	mux.HandleFunc("GET /users", admin(userController.ListUsers))
	mux.HandleFunc("PATCH /users/{userID}", admin(userController.UpdateUser))
	mux.HandleFunc("DELETE /users/{userID}", admin(userController.DeleteUser))
	mux.HandleFunc("GET /invitations", admin(userController.ListInvitations))
	mux.HandleFunc("DELETE /invitations/{email}", admin(userController.DeleteInvitation))

	// Events
	mux.HandleFunc("GET /events", auth(eventController.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("POST /events", admin(eventController.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", admin(eventController.UpdateEvent))
	mux.HandleFunc("PATCH /events/{eventID}/status", admin(eventController.SetEventStatus))
	mux.HandleFunc("DELETE /events/{eventID}", admin(eventController.DeleteEvent))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(registrationController.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations", admin(registrationController.ListByEvent))
	mux.HandleFunc("PATCH /slots/{slotID}/registrations/{userID}", admin(registrationController.SetStatus))

	// Credits
	mux.HandleFunc("POST /users/{userID}/credit", admin(creditController.AdjustCredit))
	mux.HandleFunc("GET /ranking", admin(creditController.Ranking))

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
