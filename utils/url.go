package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetDownloadURL generates a download URL based on the environment (http for development, https for production).
func GetDownloadURL(c *fiber.Ctx, filePath string) string {
	env := os.Getenv("APP_ENV")
	// Remove leading slash if it exists
	filePath = strings.TrimPrefix(filePath, "/")

	if env == "production" {
		return fmt.Sprintf("https://%s/%s", c.Hostname(), filePath)
	}
	// Default to "http" for development
	return fmt.Sprintf("http://%s/%s", c.Hostname(), filePath)
}

// GenerateDownloadLink builds an absolute link for a generated report file
// outside of a request context (e.g. for email attachments).
func GenerateDownloadLink(filePath string) string {
	port := os.Getenv("PORT")
	appEnv := os.Getenv("APP_ENV")

	baseURL := "http://localhost:" + port
	if appEnv == "production" {
		baseURL = os.Getenv("BASE_URL") // Make sure to set BASE_URL in production .env
	}

	return baseURL + filePath
}
