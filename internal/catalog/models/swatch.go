package models

import (
	"errors"
	"fmt"

	planner "wallpaper-planner/internal/planner/models"
)

// ============================================================
// Swatch Model
// ============================================================

// ErrInvalidSwatch wraps every validation failure of a catalog entry.
var ErrInvalidSwatch = errors.New("invalid swatch")

// Swatch is one catalog product with the dimensions of its active type.
type Swatch struct {
	ID             string             `json:"id" yaml:"id"`
	Name           string             `json:"name" yaml:"name"`
	Type           planner.SwatchType `json:"type" yaml:"type"`
	WidthCm        float64            `json:"width_cm,omitempty" yaml:"width_cm"`
	LengthM        float64            `json:"length_m,omitempty" yaml:"length_m"`
	RollWidthCm    float64            `json:"roll_width_cm,omitempty" yaml:"roll_width_cm"`
	TotalRolls     int                `json:"total_rolls,omitempty" yaml:"total_rolls"`
	DesignHeightCm float64            `json:"design_height_cm,omitempty" yaml:"design_height_cm"`
	CreatedAt      string             `json:"created_at,omitempty" yaml:"-"`
}

// Validate checks that the dimensions of the swatch's own variant are usable.
func (s Swatch) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidSwatch)
	}
	switch s.Type {
	case planner.SwatchIndividual:
		if !(s.WidthCm > 0) || !(s.LengthM > 0) {
			return fmt.Errorf("%w: individual roll needs width_cm and length_m", ErrInvalidSwatch)
		}
	case planner.SwatchPanorama:
		if !(s.RollWidthCm > 0) || s.TotalRolls <= 0 || !(s.DesignHeightCm > 0) {
			return fmt.Errorf("%w: panorama needs roll_width_cm, total_rolls and design_height_cm", ErrInvalidSwatch)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSwatch, s.Type)
	}
	return nil
}

// Apply makes the swatch the active product of sel, leaving the other
// variant's spec untouched.
func (s Swatch) Apply(sel planner.ProductSelection) planner.ProductSelection {
	sel.Type = s.Type
	switch s.Type {
	case planner.SwatchIndividual:
		sel.Individual = planner.IndividualSpec{WidthCm: s.WidthCm, LengthM: s.LengthM}
	case planner.SwatchPanorama:
		sel.Panorama = planner.PanoramaSpec{
			RollWidthCm:    s.RollWidthCm,
			TotalRolls:     s.TotalRolls,
			DesignHeightCm: s.DesignHeightCm,
		}
	}
	return sel
}
