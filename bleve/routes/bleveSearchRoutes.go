package routes

import (
	"purchase-orders-backend/bleve/controllers"
	"purchase-orders-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitBleveRoutes(router fiber.Router, auth *middleware.AppContext, controller *controllers.SearchController) {
	api := router.Group("/bleve_search", middleware.ProtectedRoute(auth))

	api.Get("/purchase-orders", controller.SearchPurchaseOrdersController)
}
