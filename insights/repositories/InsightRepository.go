package repositories

import (
	"context"

	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsightRepository interface {
	// ReplaceForProject swaps the project's insight set in one transaction,
	// so regeneration is idempotent.
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, insights []models.Insight) error
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Insight, error)
}

type insightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{
		db: db,
	}
}

const insightBatchSize = 200

func (r *insightRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, insights []models.Insight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Insight{}).Error; err != nil {
			return err
		}
		if len(insights) == 0 {
			return nil
		}
		return tx.CreateInBatches(insights, insightBatchSize).Error
	})
}

func (r *insightRepository) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Insight, error) {
	var insights []models.Insight
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("estimated_saving_max DESC, created_at ASC").
		Find(&insights).Error
	return insights, err
}
