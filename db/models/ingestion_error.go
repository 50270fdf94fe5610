package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngestionErrorType represents why a spreadsheet row was rejected
type IngestionErrorType string

const (
	MissingDataErrorType     IngestionErrorType = "MISSING_DATA"
	NonPositiveCostErrorType IngestionErrorType = "NON_POSITIVE_COST"
)

type AddedViaType string

const (
	SingleAddedViaType AddedViaType = "Single"
	BulkAddedViaType   AddedViaType = "Bulk"
)

// IngestionError records a BoQ row dropped during processing. Rejection is
// silent towards the caller; these rows are the side report.
type IngestionError struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	RowNumber   int             `json:"row_number"`
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,4)" json:"quantity"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(15,4)" json:"unit_rate"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_cost"`

	Reason    string             `json:"reason"`
	ErrorType IngestionErrorType `json:"error_type"`
	AddedVia  AddedViaType       `json:"added_via"`
	CreatedBy string             `json:"created_by"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}
