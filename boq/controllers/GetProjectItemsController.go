package controllers

import (
	"boq-analysis-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetProjectItemsController returns a project's ranked line items, paginated
// in persisted ranking order.
func (bc *BoqController) GetProjectItemsController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
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

	items, total, err := bc.LineItemRepo.ListForProjectPaginated(c.Context(), projectID, params.PageSize, params.Offset())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving line items",
			"error":   err.Error(),
		})
	}

	response := pagination.NewPaginatedResponse(c, items, total, params)

	return c.JSON(fiber.Map{
		"message": "Line items retrieved successfully",
		"data":    response,
		"error":   nil,
	})
}
