package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem is one normalized BoQ row. Rows without a usable item code,
// description, or positive total cost never reach this table.
type LineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	ItemCode    string          `gorm:"not null;index" json:"item_code"`
	Description string          `gorm:"not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,4);default:0" json:"quantity"`
	Unit        *string         `json:"unit"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(15,4);default:0" json:"unit_rate"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_cost"`

	// WBS hierarchy derived from the dotted item code
	WbsLevel       int     `gorm:"not null;default:1;index" json:"wbs_level"`
	ParentItemCode *string `gorm:"index" json:"parent_item_code"`

	// Pareto ranking fields, populated when the project is processed
	ParetoRanking `gorm:"embedded"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ParetoRanking carries the computed cost-concentration fields. It is shared
// by persisted line items and the transient WBS aggregate rows.
type ParetoRanking struct {
	CumulativeCost       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"cumulative_cost"`
	CumulativePercentage decimal.Decimal `gorm:"type:decimal(7,4);default:0" json:"cumulative_percentage"`
	IsParetoCritical     bool            `gorm:"default:false" json:"is_pareto_critical"`
	RankOrder            int             `gorm:"default:0;index" json:"rank_order"`
}

// CostAmount returns the value this item is ranked by.
func (li *LineItem) CostAmount() decimal.Decimal {
	return li.TotalCost
}

// Ranking exposes the computed fields for the ranker to fill in.
func (li *LineItem) Ranking() *ParetoRanking {
	return &li.ParetoRanking
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}
