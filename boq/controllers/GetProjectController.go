package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (bc *BoqController) GetProjectController(c *fiber.Ctx) error {
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

	return c.JSON(fiber.Map{
		"message": "Project retrieved successfully",
		"data":    project,
		"error":   nil,
	})
}
