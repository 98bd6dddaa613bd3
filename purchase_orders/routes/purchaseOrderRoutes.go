package routes

import (
	"purchase-orders-backend/db/models"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/purchase_orders/controllers"

	"github.com/gofiber/fiber/v2"
)

func PurchaseOrderRouterInit(
	app fiber.Router,
	auth *middleware.AppContext,
	controller *controllers.PurchaseOrderController,
) {
	canImport := middleware.RequireRoles(string(models.AdminRole), string(models.ProcurementRole))

	routes := app.Group("/purchase-orders", middleware.ProtectedRoute(auth))
	routes.Get("/", controller.GetFilteredPurchaseOrdersController)
	routes.Get("/summary", controller.GetPurchaseOrdersSummaryController)

	imports := routes.Group("/import")
	imports.Get("/template", controller.DownloadTemplateController)
	imports.Get("/runs", controller.GetImportRunsController)
	imports.Get("/runs/:id", controller.GetImportRunController)
	imports.Post("/preview", canImport, controller.PreviewImportController)
	imports.Post("/commit", canImport, controller.CommitImportController)

	routes.Get("/:id", controller.GetPurchaseOrderByIDController)
}
