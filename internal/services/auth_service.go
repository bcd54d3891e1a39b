package services

import (
	"errors"
	"strings"
	"time"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type AuthService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAuthService(repo *repositories.Repository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileInput carries the player fields a user may set at signup or later.
// Empty fields are left unchanged on update.
type ProfileInput struct {
	FullName           string
	Phone              string
	RegistrationNumber string
	HouseNumber        string
	Address            string
	DateOfBirth        string // yyyy-mm-dd
	Gender             string
	TShirtSize         string
}

func (s *AuthService) Authenticate(email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" || password == "" {
		return nil, validation("email and password are required")
	}

	user, err := s.repo.UserRepo.GetUserByEmail(email)
	if err != nil {
		return nil, NewServiceError("invalid credentials", ErrUnauthorized, err)
	}

	if err := utils.CheckPassword(password, user.Password); err != nil {
		return nil, NewServiceError("invalid credentials", ErrUnauthorized, nil)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, NewServiceError("failed to generate token", ErrUnauthorized, err)
	}

	user.Password = ""
	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// Register creates a player account.
func (s *AuthService) Register(email, password string, profile ProfileInput) (*models.User, error) {
	if strings.TrimSpace(profile.FullName) == "" {
		return nil, validation("full name is required")
	}
	return s.CreateUser(email, password, models.RoleUser, profile)
}

func (s *AuthService) CreateUser(email, password, role string, profile ProfileInput) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	role = strings.TrimSpace(strings.ToLower(role))

	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, validation("invalid role: must be admin or user")
	}

	if existing, _ := s.repo.UserRepo.GetUserByEmail(email); existing != nil {
		return nil, NewServiceError("email already registered", ErrConflict, nil)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := applyProfile(user, profile); err != nil {
		return nil, err
	}

	if err := s.repo.UserRepo.CreateUser(user); err != nil {
		return nil, dbError("failed to create user", err)
	}

	// Remove password from response
	user.Password = ""
	return user, nil
}

func (s *AuthService) UpdateProfile(userID string, profile ProfileInput) (*models.User, error) {
	user, err := s.repo.UserRepo.GetUserByID(userID)
	if err != nil {
		return nil, NewServiceError("user not found", ErrNotFound, err)
	}
	if err := applyProfile(user, profile); err != nil {
		return nil, err
	}
	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		return nil, dbError("failed to update profile", err)
	}

	user.Password = ""
	return user, nil
}

func applyProfile(user *models.User, in ProfileInput) error {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.FullName, in.FullName)
	set(&user.Phone, in.Phone)
	set(&user.RegistrationNumber, in.RegistrationNumber)
	set(&user.HouseNumber, in.HouseNumber)
	set(&user.Address, in.Address)
	set(&user.TShirtSize, strings.ToUpper(in.TShirtSize))

	if in.Gender != "" {
		g := eligibility.ParseGender(in.Gender)
		if g == "" {
			return validation("gender must be MALE or FEMALE")
		}
		user.Gender = string(g)
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(in.DateOfBirth))
		if err != nil {
			return validation("date of birth must be in YYYY-MM-DD format")
		}
		if dob.After(time.Now()) {
			return validation("date of birth cannot be in the future")
		}
		user.DateOfBirth = &dob
	}
	return nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     now.Add(time.Duration(s.cfg.JWTTTLHours) * time.Hour).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) GetUserProfile(userID string) (*models.User, error) {
	user, err := s.repo.UserRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("user not found", ErrNotFound, err)
		}
		return nil, dbError("failed to load user", err)
	}

	// Remove sensitive data
	user.Password = ""
	return user, nil
}
