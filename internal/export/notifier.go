package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/sardana2xls/internal/infrastructure/influxdb"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/mqtt"
)

// Notifier receives the summary of every saved export.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, s Summary) error

// Notify calls f(ctx, s).
func (f NotifierFunc) Notify(ctx context.Context, s Summary) error { return f(ctx, s) }

// Publisher is the part of the MQTT client used by MQTTNotifier.
type Publisher interface {
	PublishDefault(topic string, payload []byte) error
	Topics() mqtt.Topics
}

// MQTTNotifier publishes the summary as JSON on <prefix>/<pool>/export.
type MQTTNotifier struct {
	pub Publisher
}

// NewMQTTNotifier creates a notifier publishing through pub.
func NewMQTTNotifier(pub Publisher) *MQTTNotifier {
	return &MQTTNotifier{pub: pub}
}

// Notify publishes s.
func (n *MQTTNotifier) Notify(_ context.Context, s Summary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := n.pub.PublishDefault(n.pub.Topics().Export(s.Pool), payload); err != nil {
		return fmt.Errorf("publishing summary: %w", err)
	}
	return nil
}

// InventoryWriter is the part of the InfluxDB client used by InfluxNotifier.
type InventoryWriter interface {
	WriteInventory(ctx context.Context, inv influxdb.Inventory) error
}

// InfluxNotifier records the row counts of every category in InfluxDB.
type InfluxNotifier struct {
	w InventoryWriter
}

// NewInfluxNotifier creates a notifier writing through w.
func NewInfluxNotifier(w InventoryWriter) *InfluxNotifier {
	return &InfluxNotifier{w: w}
}

// Notify writes s.
func (n *InfluxNotifier) Notify(ctx context.Context, s Summary) error {
	err := n.w.WriteInventory(ctx, influxdb.Inventory{
		RunID:    s.RunID,
		Pool:     s.Pool,
		Counts:   s.Counts,
		Misses:   s.Misses,
		Duration: s.Duration,
		At:       s.StartedAt,
	})
	if err != nil {
		return fmt.Errorf("recording inventory: %w", err)
	}
	return nil
}
