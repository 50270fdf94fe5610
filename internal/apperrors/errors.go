package apperrors

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrEmptySpreadsheet    = errors.New("spreadsheet contains no data rows")
	ErrNoValidLineItems    = errors.New("no valid line items found in spreadsheet")
	ErrParentCodeRequired  = errors.New("parent_item_code is required for WBS level 2 and deeper")
	ErrInvalidWbsLevel     = errors.New("wbs level must be 1 or greater")
	ErrProjectNotProcessed = errors.New("project has not been processed yet")
)
