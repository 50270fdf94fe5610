package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VERule is one row of the value-engineering policy table. The rule engine
// reads keywords and savings bounds from here only; none of these numbers
// live in code.
type VERule struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Keyword  string    `gorm:"not null;index" json:"keyword"`
	Category string    `gorm:"not null" json:"category"`
	Advice   string    `gorm:"type:text;not null" json:"advice"`

	MinSavingPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"min_saving_percent"`
	MaxSavingPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"max_saving_percent"`

	IsActive  bool           `gorm:"default:true" json:"is_active"`
	IsSystem  bool           `gorm:"default:false" json:"is_system"`
	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *VERule) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
