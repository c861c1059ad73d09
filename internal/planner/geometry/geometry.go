package geometry

import (
	"math"

	"wallpaper-planner/internal/planner/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MinPolygonPoints is the smallest vertex count with a defined area.
const MinPolygonPoints = 3

// ============================================================
// Conversions
// ============================================================

func toOrb(p models.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func toRing(points []models.Point) orb.Ring {
	ring := make(orb.Ring, len(points))
	for i, p := range points {
		ring[i] = toOrb(p)
	}
	return ring
}

// ============================================================
// Measurements
// ============================================================

// Distance returns the Euclidean distance between two normalized points.
func Distance(a, b models.Point) float64 {
	return planar.Distance(toOrb(a), toOrb(b))
}

// SignedArea is the shoelace sum over the polygon, with the last point
// joined back to the first. Counter-clockwise (in y-up terms) is positive.
func SignedArea(points []models.Point) float64 {
	n := len(points)
	if n < MinPolygonPoints {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Area returns the absolute shoelace area in squared normalized units.
// ok is false when fewer than three points are given.
func Area(points []models.Point) (float64, bool) {
	if len(points) < MinPolygonPoints {
		return 0, false
	}
	return math.Abs(SignedArea(points)), true
}

// Bounds reduces the sequence to its min/max extent. ok is false when empty.
func Bounds(points []models.Point) (models.BoundingBox, bool) {
	if len(points) == 0 {
		return models.BoundingBox{}, false
	}

	b := toRing(points).Bound()
	return models.BoundingBox{
		MinX: b.Left(),
		MaxX: b.Right(),
		MinY: b.Bottom(),
		MaxY: b.Top(),
	}, true
}
