package controllers

import (
	"strings"

	"boq-analysis-backend/db/models"
	"boq-analysis-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type veRuleRequest struct {
	Keyword          string          `json:"keyword"`
	Category         string          `json:"category"`
	Advice           string          `json:"advice"`
	MinSavingPercent decimal.Decimal `json:"min_saving_percent"`
	MaxSavingPercent decimal.Decimal `json:"max_saving_percent"`
	IsActive         *bool           `json:"is_active"`
	CreatedBy        string          `json:"created_by"`
}

func (ic *InsightController) GetFilteredVERulesController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	rules, total, err := ic.VERuleRepo.GetFilteredVERules(params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving VE rules",
			"error":   err.Error(),
		})
	}

	response := pagination.NewPaginatedResponse(c, rules, total, params)

	return c.JSON(fiber.Map{
		"message": "VE rules retrieved successfully",
		"data":    response,
		"error":   nil,
	})
}

func (ic *InsightController) CreateVERuleController(c *fiber.Ctx) error {
	var req veRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" || strings.TrimSpace(req.Advice) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Keyword and advice are required"})
	}
	if req.CreatedBy == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing 'created_by' field"})
	}
	if req.MinSavingPercent.IsNegative() || req.MaxSavingPercent.LessThan(req.MinSavingPercent) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Savings percentages must satisfy 0 <= min <= max"})
	}

	rule := &models.VERule{
		ID:               uuid.New(),
		Keyword:          req.Keyword,
		Category:         strings.TrimSpace(req.Category),
		Advice:           strings.TrimSpace(req.Advice),
		MinSavingPercent: req.MinSavingPercent,
		MaxSavingPercent: req.MaxSavingPercent,
		IsActive:         true,
		CreatedBy:        req.CreatedBy,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	created, err := ic.VERuleRepo.CreateVERule(c.Context(), rule)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create VE rule",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "VE rule created successfully",
		"data":    created,
		"error":   nil,
	})
}

func (ic *InsightController) UpdateVERuleController(c *fiber.Ctx) error {
	ruleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid rule ID"})
	}

	existing, err := ic.VERuleRepo.GetVERuleByID(c.Context(), ruleID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving VE rule",
			"error":   err.Error(),
		})
	}
	if existing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "VE rule not found"})
	}

	var req veRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if keyword := strings.TrimSpace(req.Keyword); keyword != "" {
		updates["keyword"] = keyword
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		updates["category"] = category
	}
	if advice := strings.TrimSpace(req.Advice); advice != "" {
		updates["advice"] = advice
	}
	if !req.MinSavingPercent.IsZero() || !req.MaxSavingPercent.IsZero() {
		if req.MinSavingPercent.IsNegative() || req.MaxSavingPercent.LessThan(req.MinSavingPercent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Savings percentages must satisfy 0 <= min <= max"})
		}
		updates["min_saving_percent"] = req.MinSavingPercent
		updates["max_saving_percent"] = req.MaxSavingPercent
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No updatable fields provided"})
	}

	updated, err := ic.VERuleRepo.UpdateVERule(c.Context(), ruleID, updates)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update VE rule",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "VE rule updated successfully",
		"data":    updated,
		"error":   nil,
	})
}
