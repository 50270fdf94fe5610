package controllers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"boq-analysis-backend/db/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadProjectController registers a new BoQ project from an uploaded
// spreadsheet. The file is stored as-is; no rows are parsed until the project
// is processed.
func (bc *BoqController) UploadProjectController(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to get file"})
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing 'name' field in FormData"})
	}

	createdBy := strings.TrimSpace(c.FormValue("created_by"))
	if createdBy == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing 'created_by' field in FormData"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported file type, expected .xlsx or .csv",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to open uploaded file"})
	}
	defer file.Close()

	// Prefix the stored name with a UUID so two uploads of the same workbook
	// never collide on disk.
	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), fileHeader.Filename)
	filePath, err := bc.FileStorage.UploadFile(file, storedName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to store uploaded file",
			"error":   err.Error(),
		})
	}

	project := &models.Project{
		ID:        uuid.New(),
		Name:      name,
		FileName:  fileHeader.Filename,
		FilePath:  filePath,
		Status:    models.UploadedStatus,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	created, err := bc.ProjectRepo.CreateProject(c.Context(), project)
	if err != nil {
		// Best effort: don't leave an orphaned file behind
		_ = bc.FileStorage.DeleteFile(filePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create project",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Project uploaded successfully",
		"data":    created,
		"error":   nil,
	})
}
