package controllers

import (
	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/users/repositories"
	"purchase-orders-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserRepo repositories.UserRepository
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	type CreateUserRequest struct {
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		Email     string      `json:"email"`
		Password  string      `json:"password"`
		Role      models.Role `json:"role"`
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Active:    true,
	}
	if admin := middleware.CurrentUser(c); admin != nil {
		user.CreatedBy = admin.Email
	}

	ctx := c.UserContext()
	for _, validationError := range []string{
		services.ValidateUser(user),
		services.ValidatePassword(user.Password),
		services.ValidateEmail(ctx, user.Email, uc.UserRepo),
	} {
		if validationError != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation error: " + validationError,
				"data":    nil,
				"error":   validationError,
			})
		}
	}

	created, err := uc.UserRepo.CreateUser(ctx, user)
	if err != nil {
		config.Logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create user",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    created,
		"error":   nil,
	})
}
