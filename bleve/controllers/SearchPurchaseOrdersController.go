package controllers

import (
	"strconv"

	"purchase-orders-backend/bleve/repositories"
	"purchase-orders-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (c *SearchController) SearchPurchaseOrdersController(ctx *fiber.Ctx) error {
	search := repositories.PurchaseOrderSearch{
		Query:       ctx.Query("q"),
		AddedVia:    ctx.Query("added_via"),
		ImportRunID: ctx.Query("import_run_id"),
		Size:        ctx.QueryInt("size", 20),
		From:        ctx.QueryInt("from", 0),
	}

	for name, target := range map[string]**bool{
		"paid":      &search.Paid,
		"delivered": &search.Delivered,
	} {
		raw := ctx.Query(name)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid '" + name + "' value",
				"data":    nil,
				"error":   err.Error(),
			})
		}
		*target = &val
	}

	results, err := c.repo.SearchPurchaseOrders(search)
	if err != nil {
		config.Logger.Error("Purchase order search failed", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Search failed",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	matches := make([]map[string]interface{}, 0, len(results.Hits))
	for _, hit := range results.Hits {
		matches = append(matches, hit.Fields)
	}

	return ctx.JSON(fiber.Map{
		"results": matches,
		"total":   results.Total,
	})
}
