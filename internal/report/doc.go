// Package report writes rows into a multi-sheet excelize workbook.
//
// Sheets are addressed by position, as in the Sardana configuration
// spreadsheet: see the Sheet* constants. A workbook is either generated
// from a Layout (embedded layout.yaml by default) or copied from a template
// file, which is only read.
package report
