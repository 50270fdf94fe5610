package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetIngestionErrorsController returns the rows that were rejected during the
// project's most recent processing run, in spreadsheet row order.
func (bc *BoqController) GetIngestionErrorsController(c *fiber.Ctx) error {
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

	ingestionErrors, err := bc.LineItemRepo.ListIngestionErrors(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving ingestion errors",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Ingestion errors retrieved successfully",
		"data": fiber.Map{
			"project_id": projectID,
			"count":      len(ingestionErrors),
			"errors":     ingestionErrors,
		},
		"error": nil,
	})
}
