package middleware

import (
	"context"
	"time"

	"purchase-orders-backend/config"
	"purchase-orders-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userLocalsKey = "user"

func refreshKey(refreshToken string) string { return "refresh_token:" + refreshToken }

// CurrentUser returns the payload set by ProtectedRoute, or nil.
func CurrentUser(c *fiber.Ctx) *token.Payload {
	payload, _ := c.Locals(userLocalsKey).(*token.Payload)
	return payload
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
		"data":    nil,
		"error":   reason,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Something went wrong",
		"data":    nil,
		"error":   "An internal server error occurred.",
	})
}

// ProtectedRoute accepts a valid access token, or rotates a single-use refresh
// token stored in redis into a fresh token pair.
func ProtectedRoute(app *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := c.Cookies("access_token"); accessToken != "" {
			payload, err := app.PasetoMaker.VerifyToken(accessToken)
			if err == nil {
				c.Locals(userLocalsKey, payload)
				return c.Next()
			}
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		refreshToken := c.Cookies("refresh_token")
		if refreshToken == "" {
			return unauthorized(c, "Authentication required")
		}

		refreshPayload, err := app.PasetoMaker.VerifyToken(refreshToken)
		if err != nil {
			config.Logger.Info("Refresh token verification failed", zap.Error(err))
			return unauthorized(c, "Session expired or invalid. Please log in again.")
		}

		ctx := c.UserContext()
		userID, err := app.RedisClient.GetDel(ctx, refreshKey(refreshToken)).Result()
		if err == redis.Nil {
			config.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
			)
			return unauthorized(c, "Session invalid. Please log in again.")
		}
		if err != nil {
			config.Logger.Error("Error accessing Redis for refresh token validation", zap.Error(err))
			return internalError(c)
		}

		if err := app.IssueSession(ctx, c, userID, refreshPayload.Email, refreshPayload.Role); err != nil {
			config.Logger.Error("Could not rotate session", zap.String("user_id", userID), zap.Error(err))
			return internalError(c)
		}

		c.Locals(userLocalsKey, refreshPayload)
		return c.Next()
	}
}

// IssueSession creates an access and refresh token pair, stores the refresh
// token against userID and sets both cookies.
func (app *AppContext) IssueSession(ctx context.Context, c *fiber.Ctx, userID, email, role string) error {
	accessToken, err := app.PasetoMaker.CreateToken(email, role, AccessTokenDuration)
	if err != nil {
		return err
	}
	refreshToken, err := app.PasetoMaker.CreateToken(email, role, RefreshTokenDuration)
	if err != nil {
		return err
	}
	if err := app.RedisClient.Set(ctx, refreshKey(refreshToken), userID, RefreshTokenDuration).Err(); err != nil {
		return err
	}

	c.Cookie(app.cookie("access_token", accessToken, AccessTokenDuration))
	c.Cookie(app.cookie("refresh_token", refreshToken, RefreshTokenDuration))
	return nil
}

// RevokeSession deletes the refresh token of the request and expires both cookies.
func (app *AppContext) RevokeSession(ctx context.Context, c *fiber.Ctx) error {
	var err error
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		err = app.RedisClient.Del(ctx, refreshKey(refreshToken)).Err()
	}
	c.Cookie(app.cookie("access_token", "", -time.Hour))
	c.Cookie(app.cookie("refresh_token", "", -time.Hour))
	return err
}

func (app *AppContext) cookie(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   app.SecureCookies,
		SameSite: "Lax",
		Path:     "/",
		Domain:   app.CookieDomain,
	}
}

// RequireRoles rejects users whose token role is not listed.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "Authentication required")
		}
		if !allowed[user.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden",
				"data":    nil,
				"error":   "ليس لديك صلاحية لتنفيذ هذا الإجراء",
			})
		}
		return c.Next()
	}
}
