package calibration

import (
	"math"

	"wallpaper-planner/internal/planner/geometry"
	"wallpaper-planner/internal/planner/models"
)

// ============================================================
// Presets
// ============================================================

// Preset is a named reference length in centimeters.
type Preset struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	ValueCm float64 `json:"value_cm"`
}

const (
	A4HeightCm   = 29.7
	DoorHeightCm = 210.0
	DoorWidthCm  = 80.0
)

var presets = []Preset{
	{Name: "a4", Label: "A4 sheet height", ValueCm: A4HeightCm},
	{Name: "door_height", Label: "Door height", ValueCm: DoorHeightCm},
	{Name: "door_width", Label: "Door width", ValueCm: DoorWidthCm},
}

// Presets returns the one-click reference lengths.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ============================================================
// Scale
// ============================================================

// ScaleFactor returns centimeters per normalized-distance unit for the
// calibration segment. ok is false when either point is missing, the points
// coincide, the reference length is not positive, or the result is not finite.
func ScaleFactor(c models.Calibration) (float64, bool) {
	if c.P1 == nil || c.P2 == nil {
		return 0, false
	}
	if !(c.RealWorldValueCm > 0) {
		return 0, false
	}

	d := geometry.Distance(*c.P1, *c.P2)
	if d == 0 {
		return 0, false
	}

	factor := c.RealWorldValueCm / d
	if !(factor > 0) || math.IsInf(factor, 0) {
		return 0, false
	}
	return factor, true
}

// Complete reports whether both segment endpoints are set.
func Complete(c models.Calibration) bool {
	return c.P1 != nil && c.P2 != nil
}
