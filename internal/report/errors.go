package report

import "errors"

var (
	// ErrSheetNotFound is returned when a sheet index is outside the workbook.
	ErrSheetNotFound = errors.New("report: sheet not found")

	// ErrInvalidLayout is returned when a layout cannot be used.
	ErrInvalidLayout = errors.New("report: invalid layout")
)
