package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

// dirPermissions is the permission mode for the output directory.
const dirPermissions = 0750

// Workbook is an in-memory workbook saved once with SaveAs.
type Workbook struct {
	f          *excelize.File
	sheets     []string
	headerRows int
}

// Open prepares a workbook. With a template path the template is opened and
// its sheets are used by position; otherwise the sheets and header lines of
// layout are generated. The template file is never written.
func Open(templatePath string, layout *Layout) (*Workbook, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	if templatePath != "" {
		return openTemplate(templatePath, layout)
	}
	return generate(layout)
}

func openTemplate(path string, layout *Layout) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening template %s: %w", path, err)
	}
	return &Workbook{
		f:          f,
		sheets:     f.GetSheetList(),
		headerRows: layout.HeaderRows,
	}, nil
}

func generate(layout *Layout) (*Workbook, error) {
	f := excelize.NewFile()
	w := &Workbook{f: f, headerRows: layout.HeaderRows}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range layout.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				f.Close() //nolint:errcheck // Best effort cleanup on error path
				return nil, fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, fmt.Errorf("creating sheet %q: %w", s.Name, err)
		}
		w.sheets = append(w.sheets, s.Name)

		if len(s.Headers) == 0 || layout.HeaderRows == 0 {
			continue
		}
		if err := w.WriteLine(i, 0, s.Headers); err != nil {
			f.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1) //nolint:errcheck // Column count is small
		if err := f.SetCellStyle(s.Name, "A1", last, bold); err != nil {
			f.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, fmt.Errorf("styling header of %q: %w", s.Name, err)
		}
	}
	return w, nil
}

// SheetName returns the name of the sheet at index.
func (w *Workbook) SheetName(index int) (string, error) {
	if index < 0 || index >= len(w.sheets) {
		return "", fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, index, len(w.sheets))
	}
	return w.sheets[index], nil
}

// HeaderRows returns the number of lines above the first data row.
func (w *Workbook) HeaderRows() int {
	return w.headerRows
}

// WriteLine writes cells on a 0-based line of a sheet, starting at column 0.
func (w *Workbook) WriteLine(sheet, line int, cells []string) error {
	name, err := w.SheetName(sheet)
	if err != nil {
		return err
	}

	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, line+1)
		if err != nil {
			return fmt.Errorf("addressing %s line %d: %w", name, line, err)
		}
		if err := w.f.SetCellValue(name, cell, value); err != nil {
			return fmt.Errorf("writing %s!%s: %w", name, cell, err)
		}
	}
	return nil
}

// WriteRow writes data row i, which is line HeaderRows()+i.
func (w *Workbook) WriteRow(sheet, i int, cells []string) error {
	return w.WriteLine(sheet, w.headerRows+i, cells)
}

// WriteRows writes row i on line HeaderRows()+i.
func (w *Workbook) WriteRows(sheet int, rows [][]string) error {
	for i, row := range rows {
		if err := w.WriteRow(sheet, i, row); err != nil {
			return err
		}
	}
	return nil
}

// SaveAs writes the workbook to path, creating the directory when missing.
func (w *Workbook) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}
