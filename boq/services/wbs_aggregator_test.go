package services

import (
	"context"
	"testing"

	"boq-analysis-backend/db/models"
	"boq-analysis-backend/internal/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineItem(t *testing.T, code, description, cost string) *models.LineItem {
	t.Helper()
	return &models.LineItem{
		ID:          uuid.New(),
		ItemCode:    code,
		Description: description,
		Quantity:    newDecimal(t, "1"),
		TotalCost:   newDecimal(t, cost),
		WbsLevel:    WbsLevel(code),
	}
}

func TestGetWbsDataInvalidLevel(t *testing.T) {
	aggregator := NewWbsAggregator(newMockProjectRepository(), newMockLineItemRepository())

	_, err := aggregator.GetWbsData(context.Background(), uuid.New(), 0, "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidWbsLevel)
}

func TestGetWbsDataLevelTwoRequiresParent(t *testing.T) {
	aggregator := NewWbsAggregator(newMockProjectRepository(), newMockLineItemRepository())

	_, err := aggregator.GetWbsData(context.Background(), uuid.New(), 2, "   ")

	assert.ErrorIs(t, err, apperrors.ErrParentCodeRequired)
}

func TestGetWbsDataProjectNotFound(t *testing.T) {
	aggregator := NewWbsAggregator(newMockProjectRepository(), newMockLineItemRepository())

	_, err := aggregator.GetWbsData(context.Background(), uuid.New(), 1, "")

	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestGetWbsDataLevelRelativeBasis(t *testing.T) {
	// Two level-2 children under "1" costing 300 and 100: percentages are
	// computed against their own 400 subtotal, ignoring every other branch.
	project := &models.Project{ID: uuid.New(), Status: models.ProcessedStatus}
	projectRepo := newMockProjectRepository(project)
	lineItemRepo := newMockLineItemRepository()
	lineItemRepo.children = []*models.LineItem{
		lineItem(t, "1.1", "Excavation", "300"),
		lineItem(t, "1.2", "Backfill", "100"),
	}
	aggregator := NewWbsAggregator(projectRepo, lineItemRepo)

	result, err := aggregator.GetWbsData(context.Background(), project.ID, 2, "1")

	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.True(t, result.TotalCost.Equal(newDecimal(t, "400")))

	assert.Equal(t, "1.1", result.Rows[0].ItemCode)
	assert.True(t, result.Rows[0].CumulativePercentage.Equal(newDecimal(t, "75")))
	assert.Equal(t, "1.2", result.Rows[1].ItemCode)
	assert.True(t, result.Rows[1].CumulativePercentage.Equal(newDecimal(t, "100")))

	require.NotNil(t, result.ParentItemCode)
	assert.Equal(t, "1", *result.ParentItemCode)
}

func TestGetWbsDataGroupsDuplicateCodes(t *testing.T) {
	project := &models.Project{ID: uuid.New(), Status: models.ProcessedStatus}
	projectRepo := newMockProjectRepository(project)
	lineItemRepo := newMockLineItemRepository()
	lineItemRepo.byLevel[1] = []*models.LineItem{
		lineItem(t, "1", "Sitework", "600"),
		lineItem(t, "1", "Clearing", "400"),
		lineItem(t, "2", "Concrete", "1000"),
	}
	aggregator := NewWbsAggregator(projectRepo, lineItemRepo)

	result, err := aggregator.GetWbsData(context.Background(), project.ID, 1, "")

	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.True(t, result.TotalCost.Equal(newDecimal(t, "2000")))

	var group *WbsAggregateRow
	for _, row := range result.Rows {
		if row.ItemCode == "1" {
			group = row
		}
	}
	require.NotNil(t, group)
	assert.True(t, group.TotalCost.Equal(newDecimal(t, "1000")))
	assert.Equal(t, 2, group.ItemCount)
	assert.Equal(t, "Sitework, Clearing", group.Description)
}

func TestGetWbsDataEmptySubsetIsNotAnError(t *testing.T) {
	project := &models.Project{ID: uuid.New(), Status: models.ProcessedStatus}
	projectRepo := newMockProjectRepository(project)
	lineItemRepo := newMockLineItemRepository()
	aggregator := NewWbsAggregator(projectRepo, lineItemRepo)

	result, err := aggregator.GetWbsData(context.Background(), project.ID, 3, "9.9")

	require.NoError(t, err)
	assert.True(t, result.TotalCost.IsZero())
	assert.Empty(t, result.Rows)
	assert.NotNil(t, result.Rows, "rows must serialize as [] rather than null")
}

func TestGetWbsDataDropsNonPositiveGroups(t *testing.T) {
	project := &models.Project{ID: uuid.New(), Status: models.ProcessedStatus}
	projectRepo := newMockProjectRepository(project)
	lineItemRepo := newMockLineItemRepository()
	lineItemRepo.byLevel[1] = []*models.LineItem{
		lineItem(t, "1", "Sitework", "1000"),
		lineItem(t, "2", "Credit note", "-50"),
	}
	aggregator := NewWbsAggregator(projectRepo, lineItemRepo)

	result, err := aggregator.GetWbsData(context.Background(), project.ID, 1, "")

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "1", result.Rows[0].ItemCode)
}
