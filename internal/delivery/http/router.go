package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventapp/internal/delivery/http/controllers"
	"eventapp/internal/delivery/http/middleware"
	"eventapp/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	categoryController *controllers.CategoryController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateMe))
	mux.HandleFunc("DELETE /users/me", auth(userController.DeleteMe))
	mux.HandleFunc("GET /users/{userID}", auth(userController.GetByID))

	// Events
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))

	// Categories
	mux.HandleFunc("POST /categories", auth(categoryController.Create))
	mux.HandleFunc("GET /categories", categoryController.List)
	mux.HandleFunc("GET /categories/{categoryID}", categoryController.GetByID)
	mux.HandleFunc("PUT /categories/{categoryID}", auth(categoryController.Update))
	mux.HandleFunc("DELETE /categories/{categoryID}", auth(categoryController.Delete))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(registrationController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(registrationController.Cancel))
	mux.HandleFunc("GET /events/{eventID}/participants", auth(registrationController.Participants))
	mux.HandleFunc("GET /registrations/{registrationID}", auth(registrationController.GetByID))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
