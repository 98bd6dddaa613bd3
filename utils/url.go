package utils

import (
	"fmt"
	"strings"

	"purchase-orders-backend/config"

	"github.com/gofiber/fiber/v2"
)

// GetDownloadURL builds an absolute link to a public file. BASE_URL wins when
// set; otherwise the request host is used, https in production.
func GetDownloadURL(c *fiber.Ctx, filePath string) string {
	filePath = strings.TrimPrefix(strings.TrimPrefix(filePath, "."), "/")

	if base := config.GetEnv("BASE_URL"); base != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), filePath)
	}

	scheme := "http"
	if config.GetEnv("APP_ENV") == "production" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, c.Hostname(), filePath)
}
