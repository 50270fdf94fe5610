package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus tracks where a project is in its lifecycle
type ProjectStatus string

const (
	UploadedStatus  ProjectStatus = "uploaded"
	ProcessedStatus ProjectStatus = "processed"
)

// Project represents one uploaded Bill of Quantities and its analysis state
type Project struct {
	ID       uuid.UUID     `gorm:"type:uuid;primary_key;" json:"id"`
	Name     string        `gorm:"not null;index" json:"name"`
	FileName string        `gorm:"not null" json:"file_name"`
	FilePath string        `gorm:"not null" json:"file_path"`
	Status   ProjectStatus `gorm:"type:varchar(20);default:'uploaded';index" json:"status"`

	// Cached analysis summary, refreshed on every processing run
	TotalItems int             `gorm:"default:0" json:"total_items"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_cost"`

	LineItems []LineItem `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
