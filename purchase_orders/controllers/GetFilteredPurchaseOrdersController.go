package controllers

import (
	"errors"
	"strconv"

	"purchase-orders-backend/config"
	"purchase-orders-backend/purchase_orders/repositories"
	"purchase-orders-backend/purchase_orders/services"
	"purchase-orders-backend/utils"
	"purchase-orders-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (pc *PurchaseOrderController) cacheGet(c *fiber.Ctx, key string, dst interface{}) bool {
	if pc.Cache == nil {
		return false
	}
	found, err := pc.Cache.Get(c.UserContext(), key, dst)
	if err != nil {
		config.Logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (pc *PurchaseOrderController) cacheSet(c *fiber.Ctx, key string, value interface{}) {
	if pc.Cache == nil {
		return
	}
	if err := pc.Cache.Set(c.UserContext(), key, value); err != nil {
		config.Logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (pc *PurchaseOrderController) GetFilteredPurchaseOrdersController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	keyFilters := map[string]string{"page": strconv.Itoa(params.Page), "page_size": strconv.Itoa(params.PageSize)}
	for k, v := range params.Filters {
		keyFilters[k] = v
	}
	cacheKey := utils.GenerateHash(services.PurchaseOrdersResource, keyFilters)

	var cached pagination.PaginatedResponse
	if pc.cacheGet(c, cacheKey, &cached) {
		return c.JSON(fiber.Map{
			"message": "Purchase orders retrieved successfully",
			"data":    cached,
			"error":   nil,
		})
	}

	orders, total, err := pc.Repo.GetFilteredPurchaseOrders(c.UserContext(), params.Filters, true, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch filtered purchase orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch purchase orders",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	response := pagination.NewPaginatedResponse(c, orders, total, params)
	pc.cacheSet(c, cacheKey, response)

	return c.JSON(fiber.Map{
		"message": "Purchase orders retrieved successfully",
		"data":    response,
		"error":   nil,
	})
}

// GetPurchaseOrdersSummaryController aggregates every order matching the filters.
func (pc *PurchaseOrderController) GetPurchaseOrdersSummaryController(c *fiber.Ctx) error {
	filters := pagination.ParsePaginationParams(c).Filters
	cacheKey := utils.GenerateHash(services.PurchaseOrdersResource+":summary", filters)

	var summary services.Summary
	if pc.cacheGet(c, cacheKey, &summary) {
		return c.JSON(fiber.Map{
			"message": "Summary retrieved successfully",
			"data":    summary,
			"error":   nil,
		})
	}

	orders, _, err := pc.Repo.GetFilteredPurchaseOrders(c.UserContext(), filters, false, 0, 0)
	if err != nil {
		config.Logger.Error("Failed to fetch purchase orders for summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to compute summary",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	summary = services.Summarize(orders, pc.Dates.Today())
	pc.cacheSet(c, cacheKey, summary)

	return c.JSON(fiber.Map{
		"message": "Summary retrieved successfully",
		"data":    summary,
		"error":   nil,
	})
}

func (pc *PurchaseOrderController) GetPurchaseOrderByIDController(c *fiber.Ctx) error {
	order, err := pc.Repo.GetPurchaseOrderByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, repositories.ErrPurchaseOrderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Purchase order not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}
	if err != nil {
		config.Logger.Error("Failed to fetch purchase order", zap.String("id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch purchase order",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Purchase order retrieved successfully",
		"data": fiber.Map{
			"order":          order,
			"payment_status": services.PaymentStatusOf(*order, pc.Dates.Today()),
			"profit_margin":  services.ProfitMargin(order.SellingAmount, order.BuyingAmount).Round(2),
		},
		"error": nil,
	})
}

func (pc *PurchaseOrderController) GetImportRunsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	runs, total, err := pc.Repo.GetImportRuns(c.UserContext(), params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch import runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch import runs",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Import runs retrieved successfully",
		"data":    pagination.NewPaginatedResponse(c, runs, total, params),
		"error":   nil,
	})
}

func (pc *PurchaseOrderController) GetImportRunController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid import run id",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	run, err := pc.Repo.GetImportRun(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Import run not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	data := fiber.Map{"run": run}
	if run.ReportPath != "" {
		data["report_url"] = utils.GetDownloadURL(c, run.ReportPath)
	}
	return c.JSON(fiber.Map{
		"message": "Import run retrieved successfully",
		"data":    data,
		"error":   nil,
	})
}
