package services

import (
	"context"
	"fmt"
	"strings"

	"boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/db/models"
	"boq-analysis-backend/internal/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WbsAggregateRow is one drill-down row: all line items sharing an item code
// at the requested level, merged. It is recomputed on every request and never
// persisted.
type WbsAggregateRow struct {
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        *string         `json:"unit"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	ItemCount   int             `json:"item_count"`

	models.ParetoRanking
}

func (r *WbsAggregateRow) CostAmount() decimal.Decimal {
	return r.TotalCost
}

func (r *WbsAggregateRow) Ranking() *models.ParetoRanking {
	return &r.ParetoRanking
}

// WbsDataResult is the response of one drill-down request. TotalCost is the
// selected subset's own total, which is also the 100% basis for the rows'
// cumulative percentages.
type WbsDataResult struct {
	ProjectID      uuid.UUID          `json:"project_id"`
	Level          int                `json:"level"`
	ParentItemCode *string            `json:"parent_item_code,omitempty"`
	TotalCost      decimal.Decimal    `json:"total_cost"`
	Rows           []*WbsAggregateRow `json:"items"`
}

// WbsAggregator serves hierarchical drill-down over a project's persisted
// line items. Read-only and deterministic for a given stored state.
type WbsAggregator struct {
	projectRepo  repositories.ProjectRepository
	lineItemRepo repositories.LineItemRepository
}

func NewWbsAggregator(
	projectRepo repositories.ProjectRepository,
	lineItemRepo repositories.LineItemRepository,
) *WbsAggregator {
	return &WbsAggregator{
		projectRepo:  projectRepo,
		lineItemRepo: lineItemRepo,
	}
}

// GetWbsData aggregates the project's line items at the requested level. For
// level 1 the whole level is returned; for deeper levels only the direct
// children of parentItemCode. Cumulative percentages are computed against the
// subset's own total, never the project grand total: "critical" is always
// relative to the scope currently being viewed.
func (a *WbsAggregator) GetWbsData(ctx context.Context, projectID uuid.UUID, level int, parentItemCode string) (*WbsDataResult, error) {
	if level < 1 {
		return nil, apperrors.ErrInvalidWbsLevel
	}

	parentItemCode = strings.TrimSpace(parentItemCode)
	if level >= 2 && parentItemCode == "" {
		return nil, apperrors.ErrParentCodeRequired
	}

	project, err := a.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	var items []*models.LineItem
	if level == 1 {
		items, err = a.lineItemRepo.ListByWbsLevel(ctx, projectID, 1)
	} else {
		items, err = a.lineItemRepo.ListDirectChildren(ctx, projectID, level, parentItemCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list line items for project %s: %w", projectID, err)
	}

	rows := groupByItemCode(items)

	result := &WbsDataResult{
		ProjectID: projectID,
		Level:     level,
		TotalCost: decimal.Zero,
		Rows:      []*WbsAggregateRow{},
	}
	if level >= 2 {
		result.ParentItemCode = &parentItemCode
	}

	if len(rows) == 0 {
		return result, nil
	}

	result.TotalCost = RankByCost(rows, DefaultParetoThreshold)
	result.Rows = rows
	return result, nil
}

// groupByItemCode merges line items sharing a code, in first-seen order.
// Groups with an empty code or a non-positive summed cost are dropped.
// Descriptions merge as distinct values joined in first-seen order; unit and
// unit rate come from the first item that carries them.
func groupByItemCode(items []*models.LineItem) []*WbsAggregateRow {
	groups := make(map[string]*WbsAggregateRow)
	descriptionsSeen := make(map[string]map[string]bool)
	var order []string

	for _, item := range items {
		code := strings.TrimSpace(item.ItemCode)
		if code == "" {
			continue
		}

		group, ok := groups[code]
		if !ok {
			group = &WbsAggregateRow{
				ItemCode: code,
				Unit:     item.Unit,
				UnitRate: item.UnitRate,
			}
			groups[code] = group
			descriptionsSeen[code] = make(map[string]bool)
			order = append(order, code)
		}

		group.TotalCost = group.TotalCost.Add(item.TotalCost)
		group.Quantity = group.Quantity.Add(item.Quantity)
		group.ItemCount++
		if group.Unit == nil && item.Unit != nil {
			group.Unit = item.Unit
		}

		if item.Description != "" && !descriptionsSeen[code][item.Description] {
			descriptionsSeen[code][item.Description] = true
			if group.Description == "" {
				group.Description = item.Description
			} else {
				group.Description = group.Description + ", " + item.Description
			}
		}
	}

	rows := make([]*WbsAggregateRow, 0, len(order))
	for _, code := range order {
		group := groups[code]
		if group.TotalCost.LessThanOrEqual(decimal.Zero) {
			continue
		}
		rows = append(rows, group)
	}

	return rows
}
