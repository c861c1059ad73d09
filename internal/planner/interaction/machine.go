package interaction

import (
	"fmt"
	"strings"

	"wallpaper-planner/internal/planner/models"
)

// ============================================================
// Modes
// ============================================================

// Mode is the current input mode of the interaction machine.
type Mode string

const (
	Idle          Mode = "IDLE"
	Calibrating   Mode = "CALIBRATING"
	SelectingWall Mode = "SELECTING_WALL"
)

// ParseMode accepts the upper-case names as well as lower-case aliases
// ("calibrating", "selecting_wall", "idle").
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case Idle:
		return Idle, nil
	case Calibrating:
		return Calibrating, nil
	case SelectingWall:
		return SelectingWall, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Effect describes what a pointer-down did to the models.
type Effect string

const (
	EffectNone                 Effect = "none"
	EffectCalibrationStarted   Effect = "calibration_started"
	EffectCalibrationCompleted Effect = "calibration_completed"
	EffectWallPointAdded       Effect = "wall_point_added"
)

// ============================================================
// Machine
// ============================================================

// Machine owns the input mode and is the only writer of the calibration
// segment and the wall mask. It is not safe for concurrent use.
type Machine struct {
	mode        Mode
	calibration models.Calibration
	mask        models.WallMask
}

// NewMachine starts in Idle with an empty calibration carrying referenceCm.
func NewMachine(referenceCm float64) *Machine {
	return &Machine{
		mode:        Idle,
		calibration: models.Calibration{RealWorldValueCm: referenceCm},
	}
}

// Mode returns the active input mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Toggle enters target, or returns to Idle when target is already active.
// Toggling Idle always lands on Idle.
func (m *Machine) Toggle(target Mode) Mode {
	if target == m.mode || target == Idle {
		m.mode = Idle
	} else {
		m.mode = target
	}
	return m.mode
}

// PointerDown applies a normalized click according to the current mode.
func (m *Machine) PointerDown(p models.Point) Effect {
	switch m.mode {
	case Calibrating:
		c := &m.calibration
		if c.P1 == nil || c.P2 != nil {
			// starting over discards any previous segment
			c.P1 = &p
			c.P2 = nil
			return EffectCalibrationStarted
		}
		c.P2 = &p
		return EffectCalibrationCompleted

	case SelectingWall:
		m.mask = append(m.mask, p)
		return EffectWallPointAdded
	}
	return EffectNone
}

// SetReference sets the physical length of the calibration segment. It may
// be changed at any time and survives segment restarts.
func (m *Machine) SetReference(valueCm float64) {
	m.calibration.RealWorldValueCm = valueCm
}

// ReplaceMask swaps the whole polygon, e.g. for an imported path.
func (m *Machine) ReplaceMask(points []models.Point) {
	m.mask = append(models.WallMask(nil), points...)
}

// Reset clears both segment points, the mask and the mode. The reference
// length is kept.
func (m *Machine) Reset() {
	m.mode = Idle
	m.calibration.P1 = nil
	m.calibration.P2 = nil
	m.mask = nil
}

// Calibration returns a copy that does not alias the machine's state.
func (m *Machine) Calibration() models.Calibration {
	c := models.Calibration{RealWorldValueCm: m.calibration.RealWorldValueCm}
	if m.calibration.P1 != nil {
		p := *m.calibration.P1
		c.P1 = &p
	}
	if m.calibration.P2 != nil {
		p := *m.calibration.P2
		c.P2 = &p
	}
	return c
}

// Mask returns a copy of the polygon.
func (m *Machine) Mask() models.WallMask {
	return append(models.WallMask(nil), m.mask...)
}
