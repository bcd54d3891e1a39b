package handlers

import (
	"errors"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/internal/utils"
	"anpl-sports-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Services are the handler dependencies.
type Services struct {
	Auth         *services.AuthService
	Events       *services.EventService
	Categories   *services.CategoryService
	Registration *services.RegistrationService
	Uploads      *services.UploadService
	Directory    *services.DirectoryService
	Payments     *services.PaymentService
	Admin        *services.AdminService
}

type Handler struct {
	authSvc         *services.AuthService
	eventSvc        *services.EventService
	categorySvc     *services.CategoryService
	registrationSvc *services.RegistrationService
	uploadSvc       *services.UploadService
	directorySvc    *services.DirectoryService
	paymentSvc      *services.PaymentService
	adminSvc        *services.AdminService
	cfg             *config.Config
}

func NewHandler(svc Services, cfg *config.Config) *Handler {
	return &Handler{
		authSvc:         svc.Auth,
		eventSvc:        svc.Events,
		categorySvc:     svc.Categories,
		registrationSvc: svc.Registration,
		uploadSvc:       svc.Uploads,
		directorySvc:    svc.Directory,
		paymentSvc:      svc.Payments,
		adminSvc:        svc.Admin,
		cfg:             cfg,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	// Public routes
	public := router.Group("/auth")
	{
		public.Post("/login", h.Login)
		public.Post("/register", h.RegisterUser)
	}

	events := router.Group("/events")
	{
		events.Get("/", h.ListEvents)
		events.Get("/slug/:slug", h.GetEventBySlug)
		events.Get("/:id", h.GetEvent)
	}
	router.Get("/categories", h.ListCategories)

	// Protected routes (JWT required)
	protected := router.Group("", middleware.JWTMiddleware(h.cfg))
	{
		protected.Get("/profile", h.GetProfile)
		protected.Patch("/profile", h.UpdateProfile)

		protected.Get("/users/search", h.SearchUsers)

		registrations := protected.Group("/registrations")
		{
			registrations.Get("/", h.ListMyRegistrations)
			registrations.Get("/pending", h.GetPendingRegistration)
			registrations.Post("/upload/:slot", h.UploadDocument)
			registrations.Post("/complete", h.CompleteRegistration)
			registrations.Get("/:id", h.GetRegistration)
			registrations.Get("/:id/receipt", h.GetReceipt)
		}

		payments := protected.Group("/payments")
		{
			payments.Post("/initiate", h.InitiatePayment)
			payments.Post("/verify", h.VerifyPayment)
		}

		// Admin only routes
		admin := protected.Group("/admin", middleware.AdminOnly)
		{
			admin.Post("/users", h.CreateUser)
			admin.Post("/events", h.CreateEvent)
			admin.Delete("/events/:id", h.CloseEvent)
			admin.Post("/categories/seed", h.SeedCategories)
			admin.Get("/registrations", h.ListRegistrations)
			admin.Get("/registrations/:id", h.GetRegistration)
			admin.Patch("/registrations/:id", h.UpdateRegistrationStatus)
		}
	}
}

// ErrorHandler renders every error a handler returns in the response
// envelope. Service errors map to a status by code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	var se *services.ServiceError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &se):
		code = StatusFor(se.Code)
		message = se.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).WithError(err).Error("internal error")
	}

	return utils.Error(c, message, code)
}

// StatusFor maps a service error code to an HTTP status.
func StatusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrValidation, services.ErrEligibility, services.ErrPayment:
		return fiber.StatusBadRequest
	case services.ErrNotFound:
		return fiber.StatusNotFound
	case services.ErrConflict:
		return fiber.StatusConflict
	case services.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case services.ErrForbidden:
		return fiber.StatusForbidden
	case services.ErrGateway:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
