package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755) // Create the directory with appropriate permissions
		if err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

// GenerateExcel creates an Excel file from the provided slice of structs. The
// headers list doubles as the struct field names to export, in column order.
// Returns the public path of the saved file.
func GenerateExcel(data interface{}, taskName string, headers []string) (string, error) {
	dirPath := "./public/files" // This is where generated reports are saved
	err := EnsureDirectoryExists(dirPath + "/")
	if err != nil {
		return "", fmt.Errorf("failed to ensure directory exists: %v", err)
	}

	f := excelize.NewFile()

	sheetName := "Sheet1"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}

	// Write headers dynamically
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("error computing header cell: %v", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	// Use reflection to loop over the provided data
	dataSlice := reflect.ValueOf(data)
	if dataSlice.Kind() != reflect.Slice {
		return "", fmt.Errorf("expected data to be a slice")
	}

	for row := 0; row < dataSlice.Len(); row++ {
		item := dataSlice.Index(row).Interface()

		for col, header := range headers {
			// Use reflection to get the field value of each struct
			field := reflect.ValueOf(item).FieldByName(header)
			if !field.IsValid() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", fmt.Errorf("error computing cell: %v", err)
			}
			value := field.Interface()
			// Stringify types excelize does not understand natively
			if s, ok := value.(fmt.Stringer); ok {
				value = s.String()
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("error setting value for field %s (row %d): %v", header, row+2, err)
			}
		}
	}

	f.SetActiveSheet(index)

	// Generate filename using taskName and the current timestamp
	fileName := fmt.Sprintf("%s_%s.xlsx", taskName, time.Now().Format("2006-01-02_15-04-05"))
	filePath := fmt.Sprintf("/public/files/%s", fileName)
	relativeFilePath := fmt.Sprintf("%s/%s", dirPath, fileName)

	if err := f.SaveAs(relativeFilePath); err != nil {
		return "", err
	}

	return filePath, nil
}
