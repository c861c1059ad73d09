package session

import (
	"errors"
	"testing"
	"time"

	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/imaging"
	"wallpaper-planner/internal/planner/interaction"
	"wallpaper-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *imaging.Image {
	return &imaging.Image{MIME: "image/png", Data: []byte{1, 2, 3}, Width: 10, Height: 10}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(29.7, "")

	ws := m.Create()
	require.NotEmpty(t, ws.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ws.ID())
	require.NoError(t, err)
	assert.Same(t, ws, got)

	require.NoError(t, m.Delete(ws.ID()))
	_, err = m.Get(ws.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(ws.ID()), ErrNotFound)
}

func TestManagerSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(29.7, "key")
	m.now = func() time.Time { return now }

	stale := m.Create()
	busy := m.Create()
	_, err := busy.BeginRender(compositor.Constraints{})
	assert.ErrorIs(t, err, compositor.ErrMissingImages)
	require.NoError(t, busy.SetImage(ImageRoom, testImage()))
	require.NoError(t, busy.SetImage(ImageSwatch, testImage()))
	_, err = busy.BeginRender(compositor.Constraints{})
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	fresh := m.Create()

	assert.Equal(t, 1, m.Sweep(2*time.Hour))
	_, err = m.Get(stale.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(busy.ID())
	assert.NoError(t, err)
	_, err = m.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestWorkspaceCalibrationFlow(t *testing.T) {
	ws := NewManager(29.7, "").Create()

	assert.Equal(t, interaction.Calibrating, ws.Toggle(interaction.Calibrating))
	assert.Equal(t, interaction.EffectCalibrationStarted, ws.PointerDown(models.Point{X: 0.1, Y: 0.1}))
	assert.Equal(t, interaction.EffectCalibrationCompleted, ws.PointerDown(models.Point{X: 0.1, Y: 0.2}))

	preset, err := ws.ApplyPreset("door_height")
	require.NoError(t, err)
	assert.Equal(t, 210.0, preset.ValueCm)

	snap := ws.Snapshot()
	require.NotNil(t, snap.ScaleCmPerUnit)
	assert.InDelta(t, 2100.0, *snap.ScaleCmPerUnit, 1e-6)
	assert.Nil(t, snap.Estimate)

	assert.Equal(t, interaction.SelectingWall, ws.Toggle(interaction.SelectingWall))
	for _, p := range []models.Point{{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 0.1, Y: 0.1}, {X: 0, Y: 0.1}} {
		assert.Equal(t, interaction.EffectWallPointAdded, ws.PointerDown(p))
	}

	est := ws.Estimate()
	require.NotNil(t, est)
	assert.InDelta(t, 4.41, est.AreaM2, 1e-9)

	_, err = ws.ApplyPreset("window")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.ErrorIs(t, ws.SetReference(0), ErrInvalidReference)
}

func TestWorkspaceResetKeepsProductAndImages(t *testing.T) {
	ws := NewManager(29.7, "").Create()
	require.NoError(t, ws.SetImage(ImageRoom, testImage()))
	require.NoError(t, ws.SetProduct(models.ProductSelection{
		Type:     models.SwatchPanorama,
		Panorama: models.PanoramaSpec{RollWidthCm: 100, TotalRolls: 4, DesignHeightCm: 270},
	}))
	ws.Toggle(interaction.SelectingWall)
	ws.PointerDown(models.Point{X: 0.5, Y: 0.5})

	ws.Reset()

	snap := ws.Snapshot()
	assert.Equal(t, interaction.Idle, snap.Mode)
	assert.Empty(t, snap.Mask)
	assert.Nil(t, snap.Calibration.P1)
	assert.Equal(t, 29.7, snap.Calibration.RealWorldValueCm)
	assert.Equal(t, models.SwatchPanorama, snap.Product.Type)
	assert.NotNil(t, snap.Room)
	assert.Nil(t, snap.Swatch)
}

func TestWorkspaceRejectsUnknownInput(t *testing.T) {
	ws := NewManager(29.7, "").Create()
	assert.ErrorIs(t, ws.SetProduct(models.ProductSelection{Type: "ROLL"}), ErrInvalidProduct)
	assert.Error(t, ws.SetImage("ceiling", testImage()))
}

func TestRenderGating(t *testing.T) {
	ws := NewManager(29.7, "").Create()

	_, err := ws.BeginRender(compositor.Constraints{})
	assert.ErrorIs(t, err, compositor.ErrMissingImages)

	require.NoError(t, ws.SetImage(ImageRoom, testImage()))
	require.NoError(t, ws.SetImage(ImageSwatch, testImage()))

	_, err = ws.BeginRender(compositor.Constraints{})
	assert.ErrorIs(t, err, ErrCredentialRequired)

	ws.SetCredential("secret")
	ticket, err := ws.BeginRender(compositor.Constraints{AspectRatio: "16:9"})
	require.NoError(t, err)
	assert.Equal(t, "secret", ticket.APIKey)
	assert.Equal(t, "16:9", ticket.Inputs.Constraints.AspectRatio)
	assert.True(t, ws.Snapshot().Rendering)

	_, err = ws.BeginRender(compositor.Constraints{})
	assert.ErrorIs(t, err, ErrRenderInFlight)

	ws.EndRender(errors.New("timeout"))
	assert.True(t, ws.Snapshot().HasCredential)

	_, err = ws.BeginRender(compositor.Constraints{})
	require.NoError(t, err)
	ws.EndRender(compositor.ErrCredentialReselect)

	snap := ws.Snapshot()
	assert.False(t, snap.Rendering)
	assert.False(t, snap.HasCredential)
	_, err = ws.BeginRender(compositor.Constraints{})
	assert.ErrorIs(t, err, ErrCredentialRequired)
}
