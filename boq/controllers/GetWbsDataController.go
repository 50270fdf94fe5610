package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"boq-analysis-backend/config"
	"boq-analysis-backend/internal/apperrors"
	"boq-analysis-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const wbsCacheTTL = 5 * time.Minute

// GetWbsDataController serves one hierarchical drill-down view. Responses are
// cached in Redis per (project, level, parent) until the next processing run
// invalidates the wbs_data prefix.
func (bc *BoqController) GetWbsDataController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	level := c.QueryInt("level", 1)
	parentItemCode := c.Query("parent_item_code")

	filters := map[string]string{
		"project_id":       projectID.String(),
		"level":            c.Query("level", "1"),
		"parent_item_code": parentItemCode,
	}
	searchKey, storageKey := utils.GenerateHash("wbs_data", filters, 1, 0)

	if bc.RedisClient != nil {
		if cached, err := utils.FindMatchingValue(bc.RedisClient, searchKey); err == nil && cached != "" {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	result, err := bc.Aggregator.GetWbsData(c.Context(), projectID, level, parentItemCode)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProjectNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
		case errors.Is(err, apperrors.ErrInvalidWbsLevel):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid WBS level, must be 1 or greater"})
		case errors.Is(err, apperrors.ErrParentCodeRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "parent_item_code is required for levels below the top level"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to aggregate WBS data",
				"error":   err.Error(),
			})
		}
	}

	body := fiber.Map{
		"message": "WBS data retrieved successfully",
		"data":    result,
		"error":   nil,
	}

	if bc.RedisClient != nil {
		if encoded, err := json.Marshal(body); err == nil {
			// Stored under both keys so repeat requests hit byte-identical JSON
			if err := bc.RedisClient.SetNX(context.Background(), storageKey, string(encoded), wbsCacheTTL).Err(); err != nil {
				config.Logger.Warn("Failed to cache WBS response", zap.Error(err))
			}
			bc.RedisClient.SetNX(context.Background(), searchKey, string(encoded), wbsCacheTTL)
		}
	}

	return c.Status(fiber.StatusOK).JSON(body)
}
