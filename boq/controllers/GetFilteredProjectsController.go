package controllers

import (
	"context"
	"fmt"
	"time"

	"boq-analysis-backend/config"
	"boq-analysis-backend/utils"
	"boq-analysis-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetFilteredProjectsController lists projects with optional filters
// (name, status, created_by, start_date, end_date) and pagination. Result
// pages large enough to be worth exporting are also written to an Excel file
// whose path is cached in Redis, guarded by a short lock so concurrent
// requests for the same query don't generate it twice.
func (bc *BoqController) GetFilteredProjectsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	searchKey, storageKey := utils.GenerateHash("projects", params.Filters, params.Page, params.PageSize)

	projects, total, err := bc.ProjectRepo.GetFilteredProjects(params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving projects",
			"error":   err.Error(),
		})
	}

	var downloadURL string

	if bc.RedisClient != nil && len(projects) > 5 {
		if filePath, err := utils.FindMatchingValue(bc.RedisClient, searchKey); err == nil && filePath != "" {
			downloadURL = utils.GetDownloadURL(c, filePath)
		} else {
			downloadURL = bc.exportProjectsList(c, searchKey, storageKey, projects)
		}
	}

	response := pagination.NewPaginatedResponse(c, projects, total, params)

	return c.JSON(fiber.Map{
		"message": "Projects retrieved successfully",
		"data": fiber.Map{
			"projects": response,
			"download": downloadURL,
		},
		"error": nil,
	})
}

func (bc *BoqController) exportProjectsList(c *fiber.Ctx, searchKey, storageKey string, projects interface{}) string {
	lockKey := fmt.Sprintf("lock:%s", searchKey)
	locked, err := bc.RedisClient.SetNX(context.Background(), lockKey, "locked", 10*time.Second).Result()
	if err != nil || !locked {
		return ""
	}
	defer bc.RedisClient.Del(context.Background(), lockKey)

	headers := []string{"ID", "Name", "FileName", "Status", "TotalItems", "TotalCost", "CreatedBy", "CreatedAt"}
	filePath, err := utils.GenerateExcel(projects, storageKey, headers)
	if err != nil {
		config.Logger.Warn("Failed to generate projects export", zap.Error(err))
		return ""
	}

	bc.RedisClient.SetNX(context.Background(), storageKey, filePath, 24*time.Hour)
	bc.RedisClient.SetNX(context.Background(), searchKey, filePath, 24*time.Hour)

	return utils.GetDownloadURL(c, filePath)
}
