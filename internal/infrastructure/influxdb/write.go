package influxdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementInventory = "sardana_inventory"
	MeasurementExport    = "sardana_export"
)

// Inventory is one export run as written to InfluxDB.
type Inventory struct {
	RunID    string
	Pool     string
	Counts   map[string]int
	Misses   int
	Duration time.Duration
	At       time.Time
}

// WriteInventory writes one sardana_inventory point per category and one
// sardana_export point for the run, in a single request.
func (c *Client) WriteInventory(ctx context.Context, inv Inventory) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	if err := c.writeAPI.WritePoint(ctx, inventoryPoints(inv)...); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// inventoryPoints builds the points of a run, categories in name order.
func inventoryPoints(inv Inventory) []*write.Point {
	at := inv.At
	if at.IsZero() {
		at = time.Now()
	}

	categories := make([]string, 0, len(inv.Counts))
	for category := range inv.Counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	points := make([]*write.Point, 0, len(categories)+1)
	for _, category := range categories {
		points = append(points, write.NewPoint(
			MeasurementInventory,
			map[string]string{
				"pool":     inv.Pool,
				"category": category,
			},
			map[string]interface{}{
				"count": inv.Counts[category],
			},
			at,
		))
	}

	points = append(points, write.NewPoint(
		MeasurementExport,
		map[string]string{"pool": inv.Pool},
		map[string]interface{}{
			"run_id":      inv.RunID,
			"misses":      inv.Misses,
			"duration_ms": float64(inv.Duration) / float64(time.Millisecond),
		},
		at,
	))
	return points
}
