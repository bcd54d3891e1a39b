package handlers

import (
	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileRequest is the editable part of a player profile.
type ProfileRequest struct {
	FullName           string `json:"fullName" validate:"omitempty,max=120"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	RegistrationNumber string `json:"registrationNumber" validate:"omitempty,max=50"`
	HouseNumber        string `json:"houseNumber" validate:"omitempty,max=50"`
	Address            string `json:"address"`
	DateOfBirth        string `json:"dateOfBirth"`
	Gender             string `json:"gender" validate:"omitempty,oneof=MALE FEMALE male female"`
	TShirtSize         string `json:"tshirtSize" validate:"omitempty,max=10"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	ProfileRequest
}

type CreateUserRequest struct {
	RegisterUserRequest
	Role string `json:"role" validate:"required,oneof=admin user"`
}

func (r ProfileRequest) input() services.ProfileInput {
	return services.ProfileInput{
		FullName:           r.FullName,
		Phone:              r.Phone,
		RegistrationNumber: r.RegistrationNumber,
		HouseNumber:        r.HouseNumber,
		Address:            r.Address,
		DateOfBirth:        r.DateOfBirth,
		Gender:             r.Gender,
		TShirtSize:         r.TShirtSize,
	}
}

// Login handles user authentication
// @Summary User login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	loginResp, err := h.authSvc.Authenticate(req.Email, req.Password)
	if err != nil {
		return err
	}

	return utils.Success(c, loginResp, "Login successful")
}

// RegisterUser signs up a player account.
// @Summary Register player
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "Account and profile"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /auth/register [post]
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authSvc.Register(req.Email, req.Password, req.input())
	if err != nil {
		return err
	}

	return utils.Success(c, user, "User registered successfully", fiber.StatusCreated)
}

// CreateUser creates an account with any role (Admin only)
// @Summary Create user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authSvc.CreateUser(req.Email, req.Password, req.Role, req.input())
	if err != nil {
		return err
	}

	return utils.Success(c, user, "User created successfully", fiber.StatusCreated)
}

// GetProfile returns current user profile
// @Summary Get user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /profile [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.authSvc.GetUserProfile(userID)
	if err != nil {
		return err
	}

	return utils.Success(c, user, "Profile retrieved successfully")
}

// UpdateProfile changes the caller's player details. Blank fields are kept.
// @Summary Update user profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /profile [patch]
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authSvc.UpdateProfile(userID, req.input())
	if err != nil {
		return err
	}

	return utils.Success(c, user, "Profile updated successfully")
}
