package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiMap_Set(t *testing.T) {
	m := NewBiMap[string, int]()

	m.Set("Test", 1)
	assert.True(t, m.Contains("Test"))
	assert.True(t, m.ContainsValue(1))
	v, _ := m.Get("Test")
	assert.Equal(t, 1, v)
	k, _ := m.GetKey(1)
	assert.Equal(t, "Test", k)

	m.Set("Test2", 2)
	assert.True(t, m.Contains("Test2"))
	assert.True(t, m.ContainsValue(2))
	k, _ = m.GetKey(2)
	assert.Equal(t, "Test2", k)

	m.Set("Test2", 1)
	assert.True(t, m.Contains("Test2"))
	assert.False(t, m.Contains("Test"))
	v, _ = m.Get("Test2")
	assert.Equal(t, 1, v)
	k, _ = m.GetKey(1)
	assert.Equal(t, "Test2", k)
	assert.False(t, m.ContainsValue(2), "stale inverse entry must be removed")
	assert.Equal(t, 1, m.Len())
}

func TestBiMap_ReassignKeyDropsStaleInverse(t *testing.T) {
	m := NewBiMap[int, string]()
	m.Set(3, "motor/ctrl/1")

	m.Set(3, "motor/ctrl/9")

	_, ok := m.GetKey("motor/ctrl/1")
	assert.False(t, ok)
	id, ok := m.GetKey("motor/ctrl/9")
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Equal(t, 1, m.Inverse().Len())
}

func TestBiMap_SetIdempotent(t *testing.T) {
	once := NewBiMap[int, string]()
	once.Set(1, "a")
	once.Set(2, "b")

	twice := NewBiMap[int, string]()
	twice.Set(1, "a")
	twice.Set(2, "b")
	twice.Set(1, "a")

	assert.Equal(t, once.Keys(), twice.Keys())
	assert.Equal(t, once.Inverse().Keys(), twice.Inverse().Keys())
}

func TestBiMap_Delete(t *testing.T) {
	tests := []struct {
		name   string
		remove func(m *BiMap[int, string])
	}{
		{name: "by key", remove: func(m *BiMap[int, string]) { m.Delete(1) }},
		{name: "by value", remove: func(m *BiMap[int, string]) { m.DeleteValue("a") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBiMap[int, string]()
			m.Set(1, "a")
			m.Set(2, "b")

			tt.remove(m)

			assert.False(t, m.Contains(1))
			assert.False(t, m.ContainsValue("a"))
			assert.True(t, m.Contains(2))
			assert.Equal(t, 1, m.Len())
		})
	}
}

func TestBiMap_InverseIsReadOnlyView(t *testing.T) {
	m := NewBiMap[int, string]()
	m.Set(10, "motor/motctrl01/1")
	m.Set(11, "motor/motctrl01/2")

	inv := m.Inverse()
	id, ok := inv.Get("motor/motctrl01/2")
	require.True(t, ok)
	assert.Equal(t, 11, id)

	keys := inv.Keys()
	keys[0] = "changed"
	assert.True(t, inv.Contains("motor/motctrl01/1"), "Keys returns a copy")

	m.Delete(10)
	assert.False(t, inv.Contains("motor/motctrl01/1"), "the view follows the map")
	assert.Equal(t, 1, inv.Len())
	assert.True(t, m.ContainsValue("motor/motctrl01/2"))
}
