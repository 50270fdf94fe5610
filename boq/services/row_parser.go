package services

import (
	"strings"

	"boq-analysis-backend/db/models"

	"github.com/shopspring/decimal"
)

// Column alias tables for BoQ spreadsheets, checked in priority order with
// exact key matching. Changing these lists is a compatibility-relevant change.
var (
	itemCodeAliases    = []string{"Item Code", "itemCode", "Code", "code"}
	descriptionAliases = []string{"Description", "description", "Item", "item"}
	quantityAliases    = []string{"Quantity", "quantity", "Qty", "qty"}
	unitAliases        = []string{"Unit", "unit"}
	unitRateAliases    = []string{"Unit Rate", "unitRate", "Rate", "rate"}
	totalCostAliases   = []string{"Total Cost", "totalCost", "Total", "total"}
)

// RowRejection explains why a raw row was dropped. Rejection never surfaces
// as an error to the caller; these feed the ingestion-error side report.
type RowRejection struct {
	RowNumber   int
	ItemCode    string
	Description string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
	TotalCost   decimal.Decimal
	Reason      string
	ErrorType   models.IngestionErrorType
}

// resolveAlias returns the first present, non-empty value among the candidate
// column names, trimmed of surrounding whitespace.
func resolveAlias(row map[string]string, aliases []string) string {
	for _, key := range aliases {
		if raw, ok := row[key]; ok {
			value := strings.TrimSpace(raw)
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// resolveDecimal parses a numeric column leniently: unparseable or missing
// values normalize to zero rather than failing the row.
func resolveDecimal(row map[string]string, aliases []string) decimal.Decimal {
	raw := resolveAlias(row, aliases)
	if raw == "" {
		return decimal.Zero
	}
	// Tolerate thousands separators, which show up in exported BoQ sheets
	raw = strings.ReplaceAll(raw, ",", "")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// ParseBoQRow normalizes one raw spreadsheet row into a LineItem. A nil item
// with a non-nil rejection means the row was dropped: missing item code or
// description, or a final total cost that is not strictly positive. When the
// total cost column is absent or non-positive it is derived as
// quantity * unit rate.
func ParseBoQRow(row map[string]string, rowNumber int) (*models.LineItem, *RowRejection) {
	itemCode := resolveAlias(row, itemCodeAliases)
	description := resolveAlias(row, descriptionAliases)
	quantity := resolveDecimal(row, quantityAliases)
	unitRate := resolveDecimal(row, unitRateAliases)
	totalCost := resolveDecimal(row, totalCostAliases)

	if totalCost.LessThanOrEqual(decimal.Zero) {
		totalCost = quantity.Mul(unitRate)
	}

	if itemCode == "" || description == "" {
		return nil, &RowRejection{
			RowNumber:   rowNumber,
			ItemCode:    itemCode,
			Description: description,
			Quantity:    quantity,
			UnitRate:    unitRate,
			TotalCost:   totalCost,
			Reason:      "missing item code or description",
			ErrorType:   models.MissingDataErrorType,
		}
	}

	if totalCost.LessThanOrEqual(decimal.Zero) {
		return nil, &RowRejection{
			RowNumber:   rowNumber,
			ItemCode:    itemCode,
			Description: description,
			Quantity:    quantity,
			UnitRate:    unitRate,
			TotalCost:   totalCost,
			Reason:      "total cost is not positive after derivation",
			ErrorType:   models.NonPositiveCostErrorType,
		}
	}

	item := &models.LineItem{
		ItemCode:    itemCode,
		Description: description,
		Quantity:    quantity,
		UnitRate:    unitRate,
		TotalCost:   totalCost,
	}

	if unit := resolveAlias(row, unitAliases); unit != "" {
		item.Unit = &unit
	}

	return item, nil
}
