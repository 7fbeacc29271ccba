package sardana

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/sardana2xls/internal/tango"
)

func TestElementsExcludesAdminDevice(t *testing.T) {
	elements, err := Elements(context.Background(), testAdapter(t), "MacroServer/B108A")
	require.NoError(t, err)

	assert.Equal(t, []tango.DeviceClass{
		{Name: "door/b108a/1", Class: "Door"},
		{Name: "door/b108a/2", Class: "Door"},
		{Name: "ms/b108a/1", Class: "MacroServer"},
	}, elements)
}

func TestBuildAliasIndex(t *testing.T) {
	ctx := context.Background()
	a := testAdapter(t)
	elements, err := Elements(ctx, a, "Pool/B108A")
	require.NoError(t, err)

	aliases, err := BuildAliasIndex(ctx, a, elements)
	require.NoError(t, err)

	alias, ok := aliases.Get("motor/motctrl01/1")
	assert.True(t, ok)
	assert.Equal(t, "mot01", alias)

	assert.False(t, aliases.Contains("motor/motctrl01/3"), "device without alias is absent")

	owner, ok := aliases.KeyOf("gap")
	assert.True(t, ok)
	assert.Equal(t, "pm/slitctrl01/1", owner)
}

func TestBuildIDIndex(t *testing.T) {
	ctx := context.Background()
	a := testAdapter(t)
	elements, err := Elements(ctx, a, "Pool/B108A")
	require.NoError(t, err)

	misses := &missRecorder{}
	ids, err := BuildIDIndex(ctx, a, elements, misses)
	require.NoError(t, err)

	assert.Equal(t, 15, ids.Len(), "every element but the pool device has an id")
	name, ok := ids.Get(10)
	assert.True(t, ok)
	assert.Equal(t, "motor/motctrl01/1", name)

	id, ok := ids.GetKey("controller/slit/slitctrl01")
	assert.True(t, ok)
	assert.Equal(t, 2, id)
	assert.Empty(t, misses.errs)
}

func TestBuildIDIndexInvalidID(t *testing.T) {
	ctx := context.Background()
	a := tango.NewAdapter(tango.NewMemoryDatabase(&tango.Dump{Devices: []tango.DumpDevice{
		{Name: "motor/a/1", Class: "Motor", Server: "Pool/X", Properties: map[string][]string{"id": {"abc"}}},
		{Name: "motor/a/2", Class: "Motor", Server: "Pool/X", Properties: map[string][]string{"id": {" 7 "}}},
	}}))
	elements, err := Elements(ctx, a, "Pool/X")
	require.NoError(t, err)

	misses := &missRecorder{}
	ids, err := BuildIDIndex(ctx, a, elements, misses)
	require.NoError(t, err)

	assert.Equal(t, 1, ids.Len())
	assert.True(t, ids.ContainsValue("motor/a/2"))
	require.Len(t, misses.errs, 1)
	assert.ErrorIs(t, misses.errs[0], ErrInvalidID)
}

func TestBuildPropertyIndex(t *testing.T) {
	ctx := context.Background()
	a := testAdapter(t)
	elements, err := Elements(ctx, a, "Pool/B108A")
	require.NoError(t, err)

	tests := []struct {
		prop   string
		device string
		want   []int
	}{
		{PropCtrlID, "motor/motctrl01/10", []int{1}},
		{PropMotorRoleIDs, "controller/slit/slitctrl01", []int{10, 11}},
		{PropPseudoMotorRoleIDs, "controller/slit/slitctrl01", []int{12, 13}},
		{PropElements, "mntgrp/pool_b108a_1/mg02", []int{16, 99}},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			index, err := BuildPropertyIndex(ctx, a, elements, tt.prop, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, index[tt.device])
		})
	}

	index, err := BuildPropertyIndex(ctx, a, elements, PropMotorRoleIDs, nil)
	require.NoError(t, err)
	assert.Len(t, index, 1, "devices without the property are absent")
}

func TestBuildPropertyIndexSkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	a := tango.NewAdapter(tango.NewMemoryDatabase(&tango.Dump{Devices: []tango.DumpDevice{
		{Name: "mntgrp/x/1", Class: "MeasurementGroup", Server: "Pool/X",
			Properties: map[string][]string{"elements": {"1; 2;", "x", "3"}}},
	}}))
	elements, err := Elements(ctx, a, "Pool/X")
	require.NoError(t, err)

	misses := &missRecorder{}
	index, err := BuildPropertyIndex(ctx, a, elements, PropElements, misses)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, index["mntgrp/x/1"])
	require.Len(t, misses.errs, 1)
	assert.ErrorIs(t, misses.errs[0], ErrInvalidID)
}

func TestBuildClassIndex(t *testing.T) {
	classes := BuildClassIndex([]tango.DeviceClass{
		{Name: "motor/a/1", Class: "Motor"},
		{Name: "expchan/a/1", Class: "CTExpChannel"},
	})
	assert.Equal(t, map[string]string{
		"motor/a/1":   "Motor",
		"expchan/a/1": "CTExpChannel",
	}, classes)
}

func TestBuildInstrumentList(t *testing.T) {
	list, err := BuildInstrumentList(context.Background(), testAdapter(t), "pool/b108a/1")
	require.NoError(t, err)

	assert.Equal(t, []Instrument{
		{Class: "NXcollection", Name: "/slit1", ID: 31},
		{Class: "NXsample_stage", Name: "/table", ID: 32},
		{Class: "NXmirror", Name: "/mirror", ID: 3},
	}, list, "an empty id falls back to the list position")

	index := BuildInstrumentIndex(list)
	name, ok := index.Get(32)
	assert.True(t, ok)
	assert.Equal(t, "/table", name)

	id, ok := index.GetKey("/mirror")
	assert.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestBuildInstrumentListTruncated(t *testing.T) {
	a := tango.NewAdapter(tango.NewMemoryDatabase(&tango.Dump{Devices: []tango.DumpDevice{
		{Name: "pool/x/1", Class: "Pool", Server: "Pool/X",
			Properties: map[string][]string{"InstrumentList": {"NXcollection", "/a", "5", "NXcollection", "/b"}}},
	}}))

	list, err := BuildInstrumentList(context.Background(), a, "pool/x/1")
	require.NoError(t, err)
	assert.Equal(t, []Instrument{
		{Class: "NXcollection", Name: "/a", ID: 5},
		{Class: "NXcollection", Name: "/b", ID: 2},
	}, list)

	list, err = BuildInstrumentList(context.Background(), a, "pool/x/unknown")
	require.NoError(t, err)
	assert.Empty(t, list)
}
