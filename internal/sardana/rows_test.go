package sardana

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poolDevice = "pool/b108a/1"

func TestMotorRows(t *testing.T) {
	inv, misses := buildTestInventory(t)

	rows, err := inv.MotorRows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{"Motor", poolDevice, "motctrl01", "mot01", "motor/motctrl01/1", "1", "/slit1", "", "Offset:0.5;Sign:-1"},
		{"Motor", poolDevice, "motctrl01", "mot02", "motor/motctrl01/2", "2", "/slit1", "", ""},
		{"Motor", poolDevice, "motctrl01", "", "motor/motctrl01/3", "3", "", "", ""},
		{"Motor", poolDevice, "motctrl01", "mot10", "motor/motctrl01/10", "10", "", "", "Step_per_unit:1000"},
	}, rows, "sorted by controller alias then numeric axis")

	require.Len(t, misses.errs, 1, "only the missing alias is a miss")
	assert.ErrorIs(t, misses.errs[0], ErrUnresolved)
}

func TestPseudoRows(t *testing.T) {
	inv, misses := buildTestInventory(t)

	rows, err := inv.PseudoRows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{"PseudoMotor", poolDevice, "slitctrl01", "gap", "pm/slitctrl01/1", "1", "", "", ""},
		{"PseudoMotor", poolDevice, "slitctrl01", "offset", "pm/slitctrl01/2", "2", "/table", "", ""},
	}, rows)

	require.Len(t, misses.errs, 1, "instrument 99 does not resolve")
	assert.ErrorIs(t, misses.errs[0], ErrUnresolved)
}

func TestIORegisterAndChannelRows(t *testing.T) {
	ctx := context.Background()
	inv, _ := buildTestInventory(t)

	iors, err := inv.IORegisterRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"IORegister", poolDevice, "iorctrl01", "ior01", "ioregister/iorctrl01/1", "1", "", "", ""},
	}, iors)

	channels, err := inv.ChannelRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"CTExpChannel", poolDevice, "ctctrl01", "ct01", "expchan/ctctrl01/1", "1", "", "", ""},
		{"CTExpChannel", poolDevice, "ctctrl01", "ct02", "expchan/ctctrl01/2", "2", "", "", ""},
	}, channels)
}

func TestControllerRows(t *testing.T) {
	inv, misses := buildTestInventory(t)

	rows, err := inv.ControllerRows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{"CTExpChannel", poolDevice, "ctctrl01", "NI660XCTCtrl.py", "NI660XCTCtrl", "channelDevNames:/dev/ni0\n/dev/ni1", ""},
		{"IORegister", poolDevice, "iorctrl01", "IORCtrl.py", "IORCtrl", "", ""},
		{"Motor", poolDevice, "motctrl01", "IcePAPCtrl.py", "IcepapController", "Host:icepap01;Port:5000", ""},
		{"PseudoMotor", poolDevice, "slitctrl01", "Slit.py", "Slit", "", "mot01;mot02"},
	}, rows, "sorted by type then alias")
	assert.Empty(t, misses.errs)
}

func TestMeasurementGroupRows(t *testing.T) {
	inv, misses := buildTestInventory(t)

	assert.Equal(t, []Row{
		{"MeasurementGroup", poolDevice, "mg01", "mntgrp/pool_b108a_1/mg01", "ct01;ct02", ""},
		{"MeasurementGroup", poolDevice, "mg02", "mntgrp/pool_b108a_1/mg02", "ct02", ""},
	}, inv.MeasurementGroupRows())

	require.Len(t, misses.errs, 1, "id 99 is skipped")
	assert.ErrorIs(t, misses.errs[0], ErrUnresolved)
	assert.Contains(t, misses.errs[0].Error(), "mg02")
}

func TestServerRows(t *testing.T) {
	ctx := context.Background()
	inv, _ := buildTestInventory(t)

	pool, err := inv.PoolRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, Row{
		"Pool", "tangodb01:10000", "Pool/B108A", "", "Pool_B108A_1", poolDevice,
		"/opt/sardana/controllers\n/beamline/controllers",
	}, pool)

	ms, err := inv.MacroServerRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, Row{
		"MacroServer", "tangodb01:10000", "MacroServer/B108A", "", "MS_B108A_1", "ms/b108a/1",
		"/beamline/macros", "Pool_B108A_1",
	}, ms)

	doors, err := inv.DoorRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"MacroServer/B108A", "ms/b108a/1", "enter description", "Door_B108A_1", "door/b108a/1"},
		{"MacroServer/B108A", "ms/b108a/1", "enter description", "Door_B108A_2", "door/b108a/2"},
	}, doors)
}

func TestGlobalAndInstrumentRows(t *testing.T) {
	inv, _ := buildTestInventory(t)

	assert.Equal(t, []Row{
		{"code", "B108A"},
		{"name", "B108A"},
		{"description"},
		{""},
		{"prefix", "p1"},
	}, inv.GlobalRows())

	assert.Equal(t, []Row{
		{"Instrument", poolDevice, "/slit1", "NXcollection"},
		{"Instrument", poolDevice, "/table", "NXsample_stage"},
		{"Instrument", poolDevice, "/mirror", "NXmirror"},
	}, inv.InstrumentRows())
}

func TestCompareAxis(t *testing.T) {
	tests := []struct {
		x, y string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"3", "3", 0},
		{"b", "a", 1},
		{"10", "a", -1},
		{"1a", "9", 1},
		{"10", "1a", -1},
		{"", "1", 1},
		{"", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.x+"_"+tt.y, func(t *testing.T) {
			assert.Equal(t, tt.want, compareAxis(tt.x, tt.y))
		})
	}
}

func TestCompareAxisOrderIndependent(t *testing.T) {
	want := []string{"9", "10", "1a"}
	for _, input := range [][]string{
		{"9", "10", "1a"},
		{"1a", "10", "9"},
		{"10", "1a", "9"},
	} {
		got := slices.Clone(input)
		slices.SortFunc(got, compareAxis)
		assert.Equal(t, want, got, "sorting %v", input)
	}
}
