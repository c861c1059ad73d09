package models

import (
	"testing"

	planner "wallpaper-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Swatch
		wantErr bool
	}{
		{"individual", Swatch{Name: "a", Type: planner.SwatchIndividual, WidthCm: 53, LengthM: 10}, false},
		{"panorama", Swatch{Name: "b", Type: planner.SwatchPanorama, RollWidthCm: 50, TotalRolls: 4, DesignHeightCm: 270}, false},
		{"no name", Swatch{Type: planner.SwatchIndividual, WidthCm: 53, LengthM: 10}, true},
		{"individual without length", Swatch{Name: "c", Type: planner.SwatchIndividual, WidthCm: 53}, true},
		{"panorama without rolls", Swatch{Name: "d", Type: planner.SwatchPanorama, RollWidthCm: 50, DesignHeightCm: 270}, true},
		{"unknown type", Swatch{Name: "e", Type: "TILE", WidthCm: 53, LengthM: 10}, true},
	}
	for _, tt := range tests {
		err := tt.s.Validate()
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSwatch, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestApplyKeepsOtherVariant(t *testing.T) {
	sel := planner.ProductSelection{
		Type:       planner.SwatchIndividual,
		Individual: planner.IndividualSpec{WidthCm: 53, LengthM: 10},
	}

	mural := Swatch{Name: "m", Type: planner.SwatchPanorama, RollWidthCm: 50, TotalRolls: 6, DesignHeightCm: 280}
	got := mural.Apply(sel)

	assert.Equal(t, planner.SwatchPanorama, got.Type)
	assert.Equal(t, planner.PanoramaSpec{RollWidthCm: 50, TotalRolls: 6, DesignHeightCm: 280}, got.Panorama)
	assert.Equal(t, sel.Individual, got.Individual)
}
