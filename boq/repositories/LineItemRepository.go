package repositories

import (
	"context"

	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LineItemRepository interface {
	// ReplaceProjectData swaps a project's analysis results in one
	// transaction: previously stored line items and ingestion errors are
	// deleted before any new row is inserted, and the project summary flips
	// to processed with fresh totals. Re-processing is therefore idempotent.
	ReplaceProjectData(
		ctx context.Context,
		projectID uuid.UUID,
		items []*models.LineItem,
		ingestionErrors []models.IngestionError,
		totalCost decimal.Decimal,
	) error

	// ListForProject returns items in persisted ranking order.
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error)
	ListForProjectPaginated(ctx context.Context, projectID uuid.UUID, pageSize, offset int) ([]*models.LineItem, int64, error)
	ListByWbsLevel(ctx context.Context, projectID uuid.UUID, level int) ([]*models.LineItem, error)
	// ListDirectChildren selects items exactly one level below parentCode,
	// never deeper descendants.
	ListDirectChildren(ctx context.Context, projectID uuid.UUID, level int, parentCode string) ([]*models.LineItem, error)
	ListParetoCritical(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error)
	ListIngestionErrors(ctx context.Context, projectID uuid.UUID) ([]models.IngestionError, error)
}

type lineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepository{
		db: db,
	}
}

const insertBatchSize = 500

func (r *lineItemRepository) ReplaceProjectData(
	ctx context.Context,
	projectID uuid.UUID,
	items []*models.LineItem,
	ingestionErrors []models.IngestionError,
	totalCost decimal.Decimal,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.IngestionError{}).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			if err := tx.CreateInBatches(items, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(ingestionErrors) > 0 {
			if err := tx.CreateInBatches(ingestionErrors, insertBatchSize).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":      models.ProcessedStatus,
			"total_items": len(items),
			"total_cost":  totalCost,
		}
		return tx.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error
	})
}

func (r *lineItemRepository) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	var items []*models.LineItem
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("rank_order ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepository) ListForProjectPaginated(ctx context.Context, projectID uuid.UUID, pageSize, offset int) ([]*models.LineItem, int64, error) {
	var items []*models.LineItem
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LineItem{}).Where("project_id = ?", projectID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("rank_order ASC").Limit(pageSize).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *lineItemRepository) ListByWbsLevel(ctx context.Context, projectID uuid.UUID, level int) ([]*models.LineItem, error) {
	var items []*models.LineItem
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND wbs_level = ?", projectID, level).
		Order("rank_order ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepository) ListDirectChildren(ctx context.Context, projectID uuid.UUID, level int, parentCode string) ([]*models.LineItem, error) {
	var items []*models.LineItem
	// wbs_level equality plus the dotted prefix makes deeper descendants
	// impossible: a level-N code under parent has exactly N segments.
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND wbs_level = ? AND item_code LIKE ?", projectID, level, parentCode+".%").
		Order("rank_order ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepository) ListParetoCritical(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	var items []*models.LineItem
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_pareto_critical = ?", projectID, true).
		Order("rank_order ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepository) ListIngestionErrors(ctx context.Context, projectID uuid.UUID) ([]models.IngestionError, error) {
	var rows []models.IngestionError
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("row_number ASC").
		Find(&rows).Error
	return rows, err
}
