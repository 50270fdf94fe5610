package services

import (
	"testing"

	"boq-analysis-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoQRowValidRow(t *testing.T) {
	item, rejection := ParseBoQRow(map[string]string{
		"Item Code":   "1.2",
		"Description": "Strip foundations",
		"Quantity":    "10",
		"Unit":        "m3",
		"Unit Rate":   "150",
		"Total Cost":  "1500",
	}, 2)

	require.Nil(t, rejection)
	require.NotNil(t, item)
	assert.Equal(t, "1.2", item.ItemCode)
	assert.Equal(t, "Strip foundations", item.Description)
	assert.True(t, item.TotalCost.Equal(newDecimal(t, "1500")))
	require.NotNil(t, item.Unit)
	assert.Equal(t, "m3", *item.Unit)
}

func TestParseBoQRowAliasPriority(t *testing.T) {
	// Lower-priority aliases only win when the higher-priority key is absent
	// or empty.
	item, rejection := ParseBoQRow(map[string]string{
		"Item Code": "",
		"code":      "2.1",
		"Item":      "Blockwork",
		"total":     "900",
	}, 2)

	require.Nil(t, rejection)
	assert.Equal(t, "2.1", item.ItemCode)
	assert.Equal(t, "Blockwork", item.Description)
	assert.True(t, item.TotalCost.Equal(newDecimal(t, "900")))
}

func TestParseBoQRowDerivesTotalFromQuantityAndRate(t *testing.T) {
	item, rejection := ParseBoQRow(map[string]string{
		"Item Code":   "3",
		"Description": "Roof trusses",
		"Quantity":    "12",
		"Unit Rate":   "250",
	}, 4)

	require.Nil(t, rejection)
	assert.True(t, item.TotalCost.Equal(newDecimal(t, "3000")))
}

func TestParseBoQRowStripsThousandsSeparators(t *testing.T) {
	item, rejection := ParseBoQRow(map[string]string{
		"Item Code":   "4",
		"Description": "Earthworks",
		"Total Cost":  "1,250,000.50",
	}, 3)

	require.Nil(t, rejection)
	assert.True(t, item.TotalCost.Equal(newDecimal(t, "1250000.50")))
}

func TestParseBoQRowRejectsMissingData(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
	}{
		{"missing item code", map[string]string{"Description": "Paint", "Total Cost": "100"}},
		{"missing description", map[string]string{"Item Code": "5", "Total Cost": "100"}},
		{"blank description", map[string]string{"Item Code": "5", "Description": "   ", "Total Cost": "100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, rejection := ParseBoQRow(tt.row, 7)
			assert.Nil(t, item)
			require.NotNil(t, rejection)
			assert.Equal(t, models.MissingDataErrorType, rejection.ErrorType)
			assert.Equal(t, 7, rejection.RowNumber)
		})
	}
}

func TestParseBoQRowRejectsNonPositiveCost(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
	}{
		{"zero everything", map[string]string{"Item Code": "6", "Description": "Sundries"}},
		{"negative total, no fallback", map[string]string{"Item Code": "6", "Description": "Sundries", "Total Cost": "-50"}},
		{"unparseable numerics", map[string]string{"Item Code": "6", "Description": "Sundries", "Quantity": "abc", "Unit Rate": "xyz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, rejection := ParseBoQRow(tt.row, 9)
			assert.Nil(t, item)
			require.NotNil(t, rejection)
			assert.Equal(t, models.NonPositiveCostErrorType, rejection.ErrorType)
		})
	}
}

func TestParseBoQRowNegativeTotalFallsBackToDerivation(t *testing.T) {
	// A non-positive explicit total is replaced by quantity * rate before the
	// rejection check, so a positive derivation rescues the row.
	item, rejection := ParseBoQRow(map[string]string{
		"Item Code":   "7",
		"Description": "Window frames",
		"Quantity":    "4",
		"Unit Rate":   "75",
		"Total Cost":  "-1",
	}, 5)

	require.Nil(t, rejection)
	assert.True(t, item.TotalCost.Equal(newDecimal(t, "300")))
}
