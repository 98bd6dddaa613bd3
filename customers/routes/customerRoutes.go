package routes

import (
	"purchase-orders-backend/customers/controllers"
	"purchase-orders-backend/customers/repositories"
	"purchase-orders-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func CustomerRouterInit(app fiber.Router, auth *middleware.AppContext, customerRepo repositories.CustomerRepository) {
	customerController := &controllers.CustomerController{CustomerRepo: customerRepo}

	customerRoutes := app.Group("/customers", middleware.ProtectedRoute(auth))
	customerRoutes.Get("/", customerController.GetFilteredCustomersController)
	customerRoutes.Get("/:id", customerController.GetCustomerByIDController)
}
