package repositories

import (
	"context"
	"errors"
	"strings"

	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	// GetProjectByID returns (nil, nil) when no project with that id exists.
	GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetFilteredProjects(pageSize int, offset int, filters map[string]string) ([]models.Project, int64, error)
	ListProcessedProjects(ctx context.Context) ([]models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	LogEmailSent(emailLog *models.EmailLog) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

func (r *projectRepository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(project).Error
	return project, err
}

func (r *projectRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// GetFilteredProjects retrieves projects with filtering and pagination
func (r *projectRepository) GetFilteredProjects(pageSize int, offset int, filters map[string]string) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.Model(&models.Project{})

	// Apply filters
	for key, value := range filters {
		switch key {
		case "name":
			db = db.Where("name ILIKE ?", "%"+value+"%")
		case "status":
			db = db.Where("status = ?", strings.ToLower(value))
		case "created_by":
			db = db.Where("created_by ILIKE ?", "%"+value+"%")
		case "start_date":
			db = db.Where("Date(created_at) >= ?", value)
		case "end_date":
			db = db.Where("Date(created_at) <= ?", value)
		}
	}

	// Count total records with filters applied
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination and ordering
	if err := db.Limit(pageSize).Offset(offset).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListProcessedProjects returns every processed project, used to rebuild the
// search index at boot.
func (r *projectRepository) ListProcessedProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProcessedStatus).
		Find(&projects).Error
	return projects, err
}

// DeleteProject removes a project together with its line items, ingestion
// errors and insights in one transaction.
func (r *projectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.IngestionError{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Insight{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

func (r *projectRepository) LogEmailSent(emailLog *models.EmailLog) error {
	if emailLog.ID == uuid.Nil {
		emailLog.ID = uuid.New()
	}
	return r.db.Create(emailLog).Error
}
