package interaction

import (
	"testing"

	"wallpaper-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	m := NewMachine(29.7)
	assert.Equal(t, Idle, m.Mode())

	assert.Equal(t, Calibrating, m.Toggle(Calibrating))
	assert.Equal(t, Idle, m.Toggle(Calibrating))

	assert.Equal(t, SelectingWall, m.Toggle(SelectingWall))
	assert.Equal(t, Calibrating, m.Toggle(Calibrating))
	assert.Equal(t, SelectingWall, m.Toggle(SelectingWall))
	assert.Equal(t, Idle, m.Toggle(Idle))
}

func TestIdleIgnoresPointer(t *testing.T) {
	m := NewMachine(29.7)
	assert.Equal(t, EffectNone, m.PointerDown(models.Point{X: 0.5, Y: 0.5}))

	c := m.Calibration()
	assert.Nil(t, c.P1)
	assert.Nil(t, c.P2)
	assert.Empty(t, m.Mask())
}

func TestCalibrationSegment(t *testing.T) {
	m := NewMachine(210)
	m.Toggle(Calibrating)

	assert.Equal(t, EffectCalibrationStarted, m.PointerDown(models.Point{X: 0.1, Y: 0.1}))
	assert.Equal(t, EffectCalibrationCompleted, m.PointerDown(models.Point{X: 0.1, Y: 0.8}))

	c := m.Calibration()
	require.NotNil(t, c.P1)
	require.NotNil(t, c.P2)
	assert.Equal(t, models.Point{X: 0.1, Y: 0.1}, *c.P1)
	assert.Equal(t, models.Point{X: 0.1, Y: 0.8}, *c.P2)
	assert.Equal(t, 210.0, c.RealWorldValueCm)

	// a third click restarts the segment
	assert.Equal(t, EffectCalibrationStarted, m.PointerDown(models.Point{X: 0.4, Y: 0.4}))
	c = m.Calibration()
	require.NotNil(t, c.P1)
	assert.Equal(t, models.Point{X: 0.4, Y: 0.4}, *c.P1)
	assert.Nil(t, c.P2)
}

func TestCalibrationToggleTwiceKeepsHalfSegmentUntilRestart(t *testing.T) {
	m := NewMachine(80)
	m.Toggle(Calibrating)
	m.Toggle(Calibrating)
	m.Toggle(Calibrating)
	assert.Equal(t, Calibrating, m.Mode())

	m.PointerDown(models.Point{X: 0.2, Y: 0.2})
	m.Toggle(Calibrating)
	m.Toggle(Calibrating)

	assert.Equal(t, EffectCalibrationCompleted, m.PointerDown(models.Point{X: 0.3, Y: 0.2}))
	assert.Equal(t, EffectCalibrationStarted, m.PointerDown(models.Point{X: 0.9, Y: 0.9}))

	c := m.Calibration()
	require.NotNil(t, c.P1)
	assert.Equal(t, models.Point{X: 0.9, Y: 0.9}, *c.P1)
	assert.Nil(t, c.P2)
}

func TestReferencePersistsAcrossRestart(t *testing.T) {
	m := NewMachine(29.7)
	m.Toggle(Calibrating)
	m.PointerDown(models.Point{X: 0, Y: 0})
	m.SetReference(123)
	m.PointerDown(models.Point{X: 0.1, Y: 0})
	m.PointerDown(models.Point{X: 0.5, Y: 0.5})

	assert.Equal(t, 123.0, m.Calibration().RealWorldValueCm)
}

func TestSelectingWallAppends(t *testing.T) {
	m := NewMachine(29.7)
	m.Toggle(SelectingWall)

	pts := []models.Point{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.9, Y: 0.9}, {X: 0.1, Y: 0.9}, {X: 0.1, Y: 0.1}}
	for _, p := range pts {
		assert.Equal(t, EffectWallPointAdded, m.PointerDown(p))
	}
	assert.Equal(t, models.WallMask(pts), m.Mask())

	m.Toggle(SelectingWall)
	m.PointerDown(models.Point{X: 0.5, Y: 0.5})
	assert.Len(t, m.Mask(), len(pts))
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	m := NewMachine(29.7)
	m.Toggle(Calibrating)
	m.PointerDown(models.Point{X: 0.1, Y: 0.1})

	c := m.Calibration()
	c.P1.X = 0.9
	assert.Equal(t, 0.1, m.Calibration().P1.X)

	m.Toggle(SelectingWall)
	m.PointerDown(models.Point{X: 0.2, Y: 0.2})
	mask := m.Mask()
	mask[0].X = 0.7
	assert.Equal(t, 0.2, m.Mask()[0].X)
}

func TestResetAndReplaceMask(t *testing.T) {
	m := NewMachine(80)
	m.Toggle(Calibrating)
	m.PointerDown(models.Point{X: 0.1, Y: 0.1})
	m.PointerDown(models.Point{X: 0.2, Y: 0.1})

	src := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	m.ReplaceMask(src)
	src[0].X = 0.5
	assert.Equal(t, 0.0, m.Mask()[0].X)
	assert.Equal(t, Calibrating, m.Mode())

	m.Reset()
	assert.Equal(t, Idle, m.Mode())
	c := m.Calibration()
	assert.Nil(t, c.P1)
	assert.Nil(t, c.P2)
	assert.Equal(t, 80.0, c.RealWorldValueCm)
	assert.Empty(t, m.Mask())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"calibrating":    Calibrating,
		"SELECTING_WALL": SelectingWall,
		" idle ":         Idle,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("drawing")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p, ok := Normalize(200, 150, 800, 600)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 0.25, Y: 0.25}, p)

	_, ok = Normalize(10, 10, 0, 600)
	assert.False(t, ok)
	_, ok = Normalize(10, 10, 800, -1)
	assert.False(t, ok)
	_, ok = Normalize(1e308, 10, 1e-308, 600)
	assert.False(t, ok)
}
