package repositories

import (
	"context"
	"errors"
	"strings"

	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VERuleRepository interface {
	GetActiveRules(ctx context.Context) ([]models.VERule, error)
	GetFilteredVERules(pageSize int, offset int, filters map[string]string) ([]models.VERule, int64, error)
	// GetVERuleByID returns (nil, nil) when no rule with that id exists.
	GetVERuleByID(ctx context.Context, id uuid.UUID) (*models.VERule, error)
	CreateVERule(ctx context.Context, rule *models.VERule) (*models.VERule, error)
	UpdateVERule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.VERule, error)
}

type veRuleRepository struct {
	db *gorm.DB
}

func NewVERuleRepository(db *gorm.DB) VERuleRepository {
	return &veRuleRepository{
		db: db,
	}
}

func (r *veRuleRepository) GetActiveRules(ctx context.Context) ([]models.VERule, error) {
	var rules []models.VERule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("keyword ASC").
		Find(&rules).Error
	return rules, err
}

func (r *veRuleRepository) GetFilteredVERules(pageSize int, offset int, filters map[string]string) ([]models.VERule, int64, error) {
	var rules []models.VERule
	var total int64

	db := r.db.Model(&models.VERule{})

	for key, value := range filters {
		switch key {
		case "keyword":
			db = db.Where("keyword ILIKE ?", "%"+value+"%")
		case "category":
			db = db.Where("category ILIKE ?", "%"+value+"%")
		case "is_active":
			db = db.Where("is_active = ?", strings.ToLower(value) == "true")
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(pageSize).Offset(offset).Order("keyword ASC").Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

func (r *veRuleRepository) GetVERuleByID(ctx context.Context, id uuid.UUID) (*models.VERule, error) {
	var rule models.VERule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *veRuleRepository) CreateVERule(ctx context.Context, rule *models.VERule) (*models.VERule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(rule).Error
	return rule, err
}

func (r *veRuleRepository) UpdateVERule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.VERule, error) {
	if err := r.db.WithContext(ctx).Model(&models.VERule{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetVERuleByID(ctx, id)
}
