package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InsightType classifies a generated recommendation
type InsightType string

const (
	ParetoConcentrationInsight InsightType = "PARETO_CONCENTRATION"
	HighUnitRateInsight        InsightType = "HIGH_UNIT_RATE"
	VESuggestionInsight        InsightType = "VE_SUGGESTION"
)

// Insight is one rule-engine recommendation for a project. LineItemID is nil
// for project-scope insights. The whole set is regenerated per processing run.
type Insight struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	LineItemID *uuid.UUID `gorm:"type:uuid;index" json:"line_item_id"`

	InsightType InsightType `gorm:"type:varchar(30);not null;index" json:"insight_type"`
	Title       string      `gorm:"not null" json:"title"`
	Detail      string      `gorm:"type:text" json:"detail"`

	EstimatedSavingMin decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"estimated_saving_min"`
	EstimatedSavingMax decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"estimated_saving_max"`

	// Rule id, matched keyword, percentages and similar context
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Insight) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
