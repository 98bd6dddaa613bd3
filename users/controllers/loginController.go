package controllers

import (
	"time"

	"purchase-orders-backend/config"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LoginController struct {
	UserRepo repositories.UserRepository
	Auth     *middleware.AppContext
}

func (lc *LoginController) LoginUser(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	ctx := c.UserContext()
	user, err := lc.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil || !user.Active || !repositories.CheckPasswordHash(req.Password, user.Password) {
		config.Logger.Warn("Login attempt failed", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Invalid email or password.",
		})
	}

	if err := lc.Auth.IssueSession(ctx, c, user.ID.String(), user.Email, string(user.Role)); err != nil {
		config.Logger.Error("Could not issue session", zap.String("user_id", user.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	if err := lc.UserRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		config.Logger.Warn("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	config.Logger.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data":    user,
		"error":   nil,
	})
}

// CurrentUser returns the account behind the session cookie.
func (lc *LoginController) CurrentUser(c *fiber.Ctx) error {
	payload := middleware.CurrentUser(c)
	if payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}
	user, err := lc.UserRepo.GetUserByEmail(c.UserContext(), payload.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "User retrieved",
		"data":    user,
		"error":   nil,
	})
}
