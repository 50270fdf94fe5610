package controllers

import (
	"strconv"

	bleveModels "boq-analysis-backend/bleve/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (c *SearchController) SearchLineItemsController(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	projectID := ctx.Query("project_id")

	if projectID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "project_id is required",
		})
	}
	if _, err := uuid.Parse(projectID); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project_id format",
		})
	}

	size := 20
	if sizeStr := ctx.Query("size"); sizeStr != "" {
		val, err := strconv.Atoi(sizeStr)
		if err != nil || val < 1 || val > 100 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid 'size' value",
			})
		}
		size = val
	}

	// Optional boolean filter
	criticalStr := ctx.Query("pareto_critical")
	paretoCriticalOnly := false
	if criticalStr != "" {
		val, err := strconv.ParseBool(criticalStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid 'pareto_critical' value",
			})
		}
		paretoCriticalOnly = val
	}

	// Perform the search
	results, err := c.repo.SearchLineItems(projectID, query, paretoCriticalOnly, size)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	response := bleveModels.SearchResponse{Hits: []bleveModels.SearchHit{}}
	for _, hit := range results.Hits {
		response.Hits = append(response.Hits, bleveModels.SearchHit{
			ID:     hit.ID,
			Fields: hit.Fields,
		})
	}

	return ctx.JSON(fiber.Map{
		"results": response.Hits,
		"total":   results.Total,
	})
}
