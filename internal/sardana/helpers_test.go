package sardana

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nerrad567/sardana2xls/internal/tango"
)

const testPool = "B108A"

func testAdapter(t *testing.T) *tango.Adapter {
	t.Helper()

	db, err := tango.LoadMemoryDatabase("testdata/tangodb.json")
	require.NoError(t, err)
	return tango.NewAdapter(db)
}

// missRecorder collects reported misses.
type missRecorder struct {
	errs []error
}

func (m *missRecorder) Miss(err error) { m.errs = append(m.errs, err) }

func buildTestInventory(t *testing.T) (*Inventory, *missRecorder) {
	t.Helper()

	misses := &missRecorder{}
	inv, err := Build(context.Background(), testAdapter(t), testPool, WithMissReporter(misses))
	require.NoError(t, err)
	return inv, misses
}
