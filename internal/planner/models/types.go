package models

// ============================================================
// Geometry primitives
// ============================================================

// Point is a position normalized against the image width (X) and height (Y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the min/max extent of a point sequence.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// ============================================================
// Calibration
// ============================================================

// Calibration is a reference segment P1-P2 with its known physical length.
type Calibration struct {
	P1               *Point  `json:"p1"`
	P2               *Point  `json:"p2"`
	RealWorldValueCm float64 `json:"real_world_value_cm"`
}

// WallMask is the wall polygon in drawing order.
type WallMask []Point

// ============================================================
// Products
// ============================================================

// SwatchType selects how rolls are counted: by area or by wall width.
type SwatchType string

const (
	SwatchIndividual SwatchType = "INDIVIDUAL"
	SwatchPanorama   SwatchType = "PANORAMA"
)

// Valid reports whether t is one of the known product types.
func (t SwatchType) Valid() bool {
	return t == SwatchIndividual || t == SwatchPanorama
}

// IndividualSpec describes one roll of a repeating pattern.
type IndividualSpec struct {
	WidthCm float64 `json:"width_cm"`
	LengthM float64 `json:"length_m"`
}

// PanoramaSpec describes a mural spread over TotalRolls rolls side by side.
type PanoramaSpec struct {
	RollWidthCm    float64 `json:"roll_width_cm"`
	TotalRolls     int     `json:"total_rolls"`
	DesignHeightCm float64 `json:"design_height_cm"`
}

// ProductSelection holds both variants; only the one named by Type is active.
type ProductSelection struct {
	Type       SwatchType     `json:"type"`
	Individual IndividualSpec `json:"individual"`
	Panorama   PanoramaSpec   `json:"panorama"`
}

// ============================================================
// Derived
// ============================================================

// EstimateResult is derived from calibration, mask and product. It is never stored.
type EstimateResult struct {
	AreaM2        float64 `json:"area_m2"`
	WidthCm       float64 `json:"width_cm"`
	HeightCm      float64 `json:"height_cm"`
	RollsRequired int     `json:"rolls_required"`
}
