package middleware

import (
	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const (
	localUserID   = "user_id"
	localUserRole = "user_role"
)

// JWTMiddleware verifies the bearer token and exposes its subject as the
// user_id and user_role locals.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(cfg.JWTSecret),
		ContextKey:   "user",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
			}
			c.Locals(localUserID, claims["user_id"])
			c.Locals(localUserRole, claims["role"])
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
}

func AdminOnly(c *fiber.Ctx) error {
	if GetUserRole(c) != models.RoleAdmin {
		return utils.Error(c, "Admin access required", fiber.StatusForbidden)
	}
	return c.Next()
}

func GetUserIDFromContext(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(localUserID).(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}

func GetUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(localUserRole).(string)
	return role
}
