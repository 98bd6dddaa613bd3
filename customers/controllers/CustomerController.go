package controllers

import (
	"errors"

	"purchase-orders-backend/config"
	"purchase-orders-backend/customers/repositories"
	"purchase-orders-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CustomerController struct {
	CustomerRepo repositories.CustomerRepository
}

func (cc *CustomerController) GetFilteredCustomersController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	customers, total, err := cc.CustomerRepo.GetFilteredCustomers(c.UserContext(), params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered customers", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch customers",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Customers retrieved successfully",
		"data":    pagination.NewPaginatedResponse(c, customers, total, params),
		"error":   nil,
	})
}

func (cc *CustomerController) GetCustomerByIDController(c *fiber.Ctx) error {
	customer, err := cc.CustomerRepo.GetCustomerByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, repositories.ErrCustomerNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Customer not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}
	if err != nil {
		config.Logger.Error("Failed to fetch customer", zap.String("id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch customer",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Customer retrieved successfully",
		"data":    customer,
		"error":   nil,
	})
}
