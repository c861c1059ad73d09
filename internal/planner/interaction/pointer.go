package interaction

import (
	"math"

	"wallpaper-planner/internal/planner/models"
)

// Normalize divides a raw pointer position by the rendered element size.
// Values are not clamped. ok is false for a non-positive size or a result
// that is not finite.
func Normalize(px, py, width, height float64) (models.Point, bool) {
	if !(width > 0) || !(height > 0) {
		return models.Point{}, false
	}
	p := models.Point{X: px / width, Y: py / height}
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return models.Point{}, false
	}
	return p, true
}
