package export

import (
	"time"
)

// Category names used in Summary.Counts.
const (
	CategoryMotors            = "motors"
	CategoryPseudoMotors      = "pseudo_motors"
	CategoryControllers       = "controllers"
	CategoryServers           = "servers"
	CategoryIORegisters       = "io_registers"
	CategoryChannels          = "channels"
	CategoryMeasurementGroups = "measurement_groups"
	CategoryInstruments       = "instruments"
	CategoryDoors             = "doors"
)

// Summary describes a finished export.
type Summary struct {
	RunID     string         `json:"run_id"`
	Pool      string         `json:"pool"`
	Output    string         `json:"output"`
	Counts    map[string]int `json:"counts"`
	Misses    int            `json:"misses"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Total returns the number of rows written across every category.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}
