package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetParetoCriticalController returns only the items inside the Pareto
// threshold, in ranking order.
func (bc *BoqController) GetParetoCriticalController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	project, err := bc.ProjectRepo.GetProjectByID(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving project",
			"error":   err.Error(),
		})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
	}

	items, err := bc.LineItemRepo.ListParetoCritical(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving critical items",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Critical items retrieved successfully",
		"data": fiber.Map{
			"project_id": projectID,
			"count":      len(items),
			"items":      items,
		},
		"error": nil,
	})
}
