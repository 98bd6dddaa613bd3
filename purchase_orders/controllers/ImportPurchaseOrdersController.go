package controllers

import (
	"errors"
	"time"

	"purchase-orders-backend/config"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/purchase_orders/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func currentEmail(c *fiber.Ctx) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Email
	}
	return ""
}

// PreviewImportController accepts a multipart "file" and returns the first
// rows of the upload with their validation errors.
func (pc *PurchaseOrderController) PreviewImportController(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": services.ErrUnsupportedFileType.Error(),
			"data":    nil,
			"error":   "Failed to get file",
		})
	}

	if _, err := services.AdmitFile(fileHeader.Filename, fileHeader.Size); err != nil {
		pc.observePreview("rejected")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"data":    nil,
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		config.Logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read file",
			"data":    nil,
			"error":   err.Error(),
		})
	}
	defer file.Close()

	result, err := pc.Imports.Preview(c.UserContext(), fileHeader.Filename, fileHeader.Size, file, currentEmail(c))
	if err != nil {
		var parseErr *services.ParseError
		switch {
		case errors.Is(err, services.ErrUnsupportedFileType), errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrEmptyFile):
			pc.observePreview("rejected")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
				"data":    nil,
				"error":   err.Error(),
			})
		case errors.As(err, &parseErr):
			pc.observePreview("unreadable")
			config.Logger.Warn("Failed to parse import file", zap.String("file", fileHeader.Filename), zap.Error(parseErr.Err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": parseErr.Error(),
				"data":    nil,
				"error":   parseErr.Detail(),
			})
		}
		config.Logger.Error("Failed to preview import", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to process file",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	if len(result.Errors) > 0 {
		pc.observePreview("invalid")
	} else {
		pc.observePreview("valid")
	}

	return c.JSON(fiber.Map{
		"message": result.Message,
		"data":    result,
		"error":   nil,
	})
}

// CommitImportController writes every row of a previewed upload.
func (pc *PurchaseOrderController) CommitImportController(c *fiber.Ctx) error {
	var req struct {
		UploadID string `json:"upload_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UploadID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": services.ErrSessionNotFound.Error(),
			"data":    nil,
			"error":   "upload_id is required",
		})
	}

	started := time.Now()
	result, err := pc.Imports.Commit(c.UserContext(), req.UploadID, currentEmail(c))
	if err != nil {
		var validationErr *services.CommitValidationError
		var parseErr *services.ParseError
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": err.Error(),
				"data":    nil,
				"error":   err.Error(),
			})
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
				"data":    fiber.Map{"errors": validationErr.Errors},
				"error":   services.ErrorSummary(validationErr.Errors),
			})
		case errors.Is(err, services.ErrValidationPending), errors.Is(err, services.ErrSessionInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
				"data":    nil,
				"error":   err.Error(),
			})
		case errors.As(err, &parseErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": parseErr.Error(),
				"data":    nil,
				"error":   parseErr.Detail(),
			})
		}
		config.Logger.Error("Failed to commit import", zap.String("upload_id", req.UploadID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to import purchase orders",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	if pc.Observer != nil {
		pc.Observer.CommitObserved(string(services.RunStatus(result.Outcome)), time.Since(started))
	}

	return c.JSON(fiber.Map{
		"message": result.Message,
		"data":    result,
		"error":   nil,
	})
}

// DownloadTemplateController streams the import template workbook.
func (pc *PurchaseOrderController) DownloadTemplateController(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment(services.TemplateFileName)

	if err := services.WriteTemplate(c.Response().BodyWriter(), pc.Imports.Mapping); err != nil {
		config.Logger.Error("Failed to build import template", zap.Error(err))
		c.Set(fiber.HeaderContentDisposition, "")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate template",
			"data":    nil,
			"error":   err.Error(),
		})
	}
	return nil
}

func (pc *PurchaseOrderController) observePreview(result string) {
	if pc.Observer != nil {
		pc.Observer.PreviewObserved(result)
	}
}
