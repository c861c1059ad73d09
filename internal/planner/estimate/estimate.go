package estimate

import (
	"math"

	"wallpaper-planner/internal/planner/calibration"
	"wallpaper-planner/internal/planner/geometry"
	"wallpaper-planner/internal/planner/models"
)

// WastageFactor is the fixed allowance for pattern matching and trim on
// individual rolls.
const WastageFactor = 1.10

const cm2PerM2 = 10000.0

// maxRolls bounds roll counts to integers a float64 represents exactly.
const maxRolls = 1 << 53

// Measurement is the unrounded physical size of the wall polygon.
type Measurement struct {
	CmPerUnit float64
	AreaM2    float64
	WidthCm   float64
	HeightCm  float64
}

// Measure converts the mask into physical units using the calibration
// segment. ok is false when the scale is undefined, the mask has fewer
// than three points, or any resulting value is not finite.
func Measure(c models.Calibration, mask models.WallMask) (Measurement, bool) {
	cmPerUnit, ok := calibration.ScaleFactor(c)
	if !ok {
		return Measurement{}, false
	}

	areaUnits, ok := geometry.Area(mask)
	if !ok {
		return Measurement{}, false
	}

	box, _ := geometry.Bounds(mask)

	m := Measurement{
		CmPerUnit: cmPerUnit,
		AreaM2:    areaUnits * cmPerUnit * cmPerUnit / cm2PerM2,
		WidthCm:   (box.MaxX - box.MinX) * cmPerUnit,
		HeightCm:  (box.MaxY - box.MinY) * cmPerUnit,
	}
	if !finite(m.AreaM2) || !finite(m.WidthCm) || !finite(m.HeightCm) {
		return Measurement{}, false
	}
	return m, true
}

// IndividualRolls returns ceil(area * 1.10 / rollArea). ok is false for a
// roll without positive area.
func IndividualRolls(areaM2 float64, spec models.IndividualSpec) (int, bool) {
	rollAreaM2 := (spec.WidthCm / 100) * spec.LengthM
	if !(rollAreaM2 > 0) || math.IsInf(rollAreaM2, 0) {
		return 0, false
	}
	return ceilCount(areaM2 * WastageFactor / rollAreaM2)
}

// PanoramaRolls returns ceil(width / rollWidth). The design height does not
// take part: only the horizontal roll count matters.
func PanoramaRolls(widthCm float64, spec models.PanoramaSpec) (int, bool) {
	if !(spec.RollWidthCm > 0) || math.IsInf(spec.RollWidthCm, 0) {
		return 0, false
	}
	return ceilCount(widthCm / spec.RollWidthCm)
}

// ceilCount rounds a roll quotient up. ok is false for NaN, negative or
// out-of-range quotients.
func ceilCount(q float64) (int, bool) {
	if !(q >= 0) || q > maxRolls {
		return 0, false
	}
	return int(math.Ceil(q)), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rolls dispatches on the active product type.
func Rolls(m Measurement, product models.ProductSelection) (int, bool) {
	switch product.Type {
	case models.SwatchPanorama:
		return PanoramaRolls(m.WidthCm, product.Panorama)
	case models.SwatchIndividual:
		return IndividualRolls(m.AreaM2, product.Individual)
	}
	return 0, false
}

// Estimate derives area, extent and roll count. It returns nil whenever a
// precondition is not met; callers treat nil as "nothing to display".
func Estimate(c models.Calibration, mask models.WallMask, product models.ProductSelection) *models.EstimateResult {
	m, ok := Measure(c, mask)
	if !ok {
		return nil
	}

	rolls, ok := Rolls(m, product)
	if !ok {
		return nil
	}

	return &models.EstimateResult{
		AreaM2:        Round(m.AreaM2, 2),
		WidthCm:       Round(m.WidthCm, 1),
		HeightCm:      Round(m.HeightCm, 1),
		RollsRequired: rolls,
	}
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
