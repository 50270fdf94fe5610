package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetProjectInsightsController returns the project's stored insights, highest
// estimated saving first.
func (ic *InsightController) GetProjectInsightsController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	project, err := ic.ProjectRepo.GetProjectByID(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving project",
			"error":   err.Error(),
		})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
	}

	insights, err := ic.InsightRepo.ListForProject(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving insights",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Insights retrieved successfully",
		"data": fiber.Map{
			"project_id": projectID,
			"count":      len(insights),
			"insights":   insights,
		},
		"error": nil,
	})
}
