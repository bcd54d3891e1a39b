package services

import (
	"testing"

	"anpl-sports-backend/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.repo, f.cfg)

	user, err := svc.Register(" New.Player@Example.com ", "secret123", ProfileInput{
		FullName:    "New Player",
		Gender:      "female",
		DateOfBirth: "1999-04-01",
		TShirtSize:  "m",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.player@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "FEMALE", user.Gender)
	assert.Equal(t, "M", user.TShirtSize)
	assert.Empty(t, user.Password)

	login, err := svc.Authenticate("new.player@example.com", "secret123")
	require.NoError(t, err)
	assert.Empty(t, login.User.Password)

	token, err := jwt.Parse(login.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(f.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, models.RoleUser, claims["role"])

	_, err = svc.Authenticate("new.player@example.com", "wrong-password")
	assert.Equal(t, ErrUnauthorized, GetErrorCode(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.repo, f.cfg)

	_, err := svc.Register("x@example.com", "secret123", ProfileInput{})
	assert.Equal(t, ErrValidation, GetErrorCode(err), "full name is required")

	_, err = svc.Register("x@example.com", "secret123", ProfileInput{FullName: "X", Gender: "other"})
	assert.Equal(t, ErrValidation, GetErrorCode(err))

	_, err = svc.Register("x@example.com", "secret123", ProfileInput{FullName: "X", DateOfBirth: "01/02/1990"})
	assert.Equal(t, ErrValidation, GetErrorCode(err))

	_, err = svc.Register(f.player.Email, "secret123", ProfileInput{FullName: "Dup"})
	assert.Equal(t, ErrConflict, GetErrorCode(err))
}

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.repo, f.cfg)

	user, err := svc.UpdateProfile(f.player.ID.String(), ProfileInput{HouseNumber: "B-12"})
	require.NoError(t, err)
	assert.Equal(t, "B-12", user.HouseNumber)
	assert.Equal(t, "Arjun Mehta", user.FullName)
	assert.Equal(t, "MALE", f.store.User(f.player.ID).Gender)
}
