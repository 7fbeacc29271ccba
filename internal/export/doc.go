// Package export runs one Pool export: it builds the inventory, writes every
// category into a workbook, saves it as <pool>.xlsx and hands a Summary of
// the run to the registered notifiers.
package export
