package controllers

import (
	"purchase-orders-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (lc *LoginController) LogoutUser(c *fiber.Ctx) error {
	if err := lc.Auth.RevokeSession(c.UserContext(), c); err != nil {
		config.Logger.Error("Failed to delete refresh token from Redis during logout", zap.Error(err))
	}

	config.Logger.Info("User logged out successfully", zap.String("client_ip", c.IP()))
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
		"data":    nil,
		"error":   nil,
	})
}
