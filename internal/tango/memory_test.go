package tango

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabaseDevices(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabase(testDump())

	names, err := db.DeviceNames(ctx, "Pool/B108A", "Pool")
	require.NoError(t, err)
	assert.Equal(t, []string{"pool/b108a/1"}, names)

	names, err = db.DeviceNames(ctx, "pool/b108a", "motor")
	require.NoError(t, err)
	assert.Equal(t, []string{"motor/ctrl01/1"}, names, "server and class ignore case")

	classes, err := db.DeviceClasses(ctx, "Pool/B108A")
	require.NoError(t, err)
	assert.Equal(t, []DeviceClass{
		{Name: "controller/ctrl01/1", Class: "Controller"},
		{Name: "motor/ctrl01/1", Class: "Motor"},
		{Name: "pool/b108a/1", Class: "Pool"},
	}, classes)

	names, err = db.DeviceNames(ctx, "Pool/OTHER", "Pool")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryDatabaseProperties(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabase(testDump())

	values, err := db.Property(ctx, "MOTOR/CTRL01/1", "axis")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, values)

	values, err = db.Property(ctx, "unknown/device/1", "Axis")
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)

	names, err := db.PropertyNames(ctx, "motor/ctrl01/1", "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Axis", "Sleep", "ctrl_id", "id"}, names)

	names, err = db.PropertyNames(ctx, "motor/ctrl01/1", "*id")
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl_id", "id"}, names)
}

func TestMemoryDatabaseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryDatabase(testDump()).DeviceClasses(ctx, "Pool/B108A")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadMemoryDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tangodb.json")
	content := `{"host": "db", "port": 10000, "devices": [
		{"name": "pool/b108a/1", "class": "Pool", "server": "Pool/B108A", "alias": "Pool_B108A"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	db, err := LoadMemoryDatabase(path)
	require.NoError(t, err)
	assert.Equal(t, "db", db.Host())
	assert.Equal(t, 10000, db.Port())

	alias, err := db.AliasFromDevice(context.Background(), "pool/b108a/1")
	require.NoError(t, err)
	assert.Equal(t, "Pool_B108A", alias)

	_, err = LoadMemoryDatabase(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseDump(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"devices": [`},
		{"missing name", `{"devices": [{"class": "Motor", "server": "Pool/X"}]}`},
		{"missing server", `{"devices": [{"name": "a/b/c", "class": "Motor"}]}`},
		{"duplicate device", `{"devices": [
			{"name": "a/b/c", "class": "Motor", "server": "Pool/X"},
			{"name": "A/B/C", "class": "Motor", "server": "Pool/X"}]}`},
		{"duplicate alias", `{"devices": [
			{"name": "a/b/1", "class": "Motor", "server": "Pool/X", "alias": "m"},
			{"name": "a/b/2", "class": "Motor", "server": "Pool/X", "alias": "m"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDump(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidDump)
		})
	}
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*", "Axis", true},
		{"*", "", true},
		{"Axis", "axis", true},
		{"Axis", "Axes", false},
		{"*_id", "ctrl_id", true},
		{"*_id", "id", false},
		{"motor*ids", "motor_role_ids", true},
		{"a*a", "a", false},
		{"P*l*h", "PoolPath", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchWildcard(tt.pattern, tt.name))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%", likePattern("*"))
	assert.Equal(t, `ctrl\_%`, likePattern("ctrl_*"))
	assert.Equal(t, `100\%`, likePattern("100%"))
}
