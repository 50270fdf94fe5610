package controllers

import (
	"errors"

	"boq-analysis-backend/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GenerateInsightsController regenerates the project's insights synchronously.
// The same engine also runs on the queue worker after each processing run;
// this endpoint exists for on-demand refreshes after VE rule edits.
func (ic *InsightController) GenerateInsightsController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	insights, err := ic.RuleEngine.GenerateForProject(c.Context(), projectID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProjectNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
		case errors.Is(err, apperrors.ErrProjectNotProcessed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Project has not been processed yet"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to generate insights",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Insights generated successfully",
		"data": fiber.Map{
			"project_id": projectID,
			"count":      len(insights),
			"insights":   insights,
		},
		"error": nil,
	})
}
