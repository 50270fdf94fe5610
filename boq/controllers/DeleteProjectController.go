package controllers

import (
	"boq-analysis-backend/config"
	"boq-analysis-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteProjectController removes a project together with its line items,
// ingestion errors and insights, then cleans up the stored spreadsheet, the
// search index and any cached drill-down responses.
func (bc *BoqController) DeleteProjectController(c *fiber.Ctx) error {
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

	if err := bc.ProjectRepo.DeleteProject(c.Context(), projectID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete project",
			"error":   err.Error(),
		})
	}

	// Post-delete cleanup is best effort
	if err := bc.FileStorage.DeleteFile(project.FilePath); err != nil {
		config.Logger.Warn("Failed to delete project file",
			zap.String("project_id", projectID.String()),
			zap.String("file_path", project.FilePath),
			zap.Error(err),
		)
	}
	if bc.BleveRepo != nil {
		if err := bc.BleveRepo.DeleteProjectIndex(projectID.String()); err != nil {
			config.Logger.Warn("Failed to delete project search index",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
	}
	if bc.RedisClient != nil {
		utils.InvalidateCacheAsync(bc.RedisClient, "wbs_data")
	}

	return c.JSON(fiber.Map{
		"message": "Project deleted successfully",
		"error":   nil,
	})
}
