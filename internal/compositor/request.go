package compositor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"wallpaper-planner/internal/imaging"
	"wallpaper-planner/internal/planner/models"
)

// ============================================================
// Request
// ============================================================

// Constraints are the fixed output settings asked of the service.
type Constraints struct {
	AspectRatio string `json:"aspect_ratio"`
	ImageSize   string `json:"image_size"`
}

// Inputs is everything a render is built from.
type Inputs struct {
	Room        *imaging.Image
	Swatch      *imaging.Image
	Calibration models.Calibration
	Mask        models.WallMask
	Product     models.ProductSelection
	Constraints Constraints
}

// Request is a ready-to-send compositing call.
type Request struct {
	Room        *imaging.Image
	Swatch      *imaging.Image
	Instruction string
	Constraints Constraints
}

// BuildRequest validates the inputs and writes the instruction block.
func BuildRequest(in Inputs) (*Request, error) {
	if in.Room == nil || len(in.Room.Data) == 0 || in.Swatch == nil || len(in.Swatch.Data) == 0 {
		return nil, ErrMissingImages
	}

	return &Request{
		Room:        in.Room,
		Swatch:      in.Swatch,
		Instruction: Instruction(in.Calibration, in.Mask, in.Product),
		Constraints: in.Constraints,
	}, nil
}

// CacheKey identifies the request by content.
func (r *Request) CacheKey() string {
	h := sha256.New()
	h.Write(r.Room.Data)
	h.Write([]byte{0})
	h.Write(r.Swatch.Data)
	h.Write([]byte{0})
	h.Write([]byte(r.Instruction))
	h.Write([]byte{0})
	h.Write([]byte(r.Constraints.AspectRatio + "|" + r.Constraints.ImageSize))
	return hex.EncodeToString(h.Sum(nil))
}

// ============================================================
// Instruction text
// ============================================================

// Instruction describes the product, the scale reference and the target
// area in plain language. The first image is the room, the second the swatch.
func Instruction(c models.Calibration, mask models.WallMask, product models.ProductSelection) string {
	var b strings.Builder

	b.WriteString("You are given two images. The first is a photo of a room. ")
	b.WriteString("The second is a wallpaper swatch. Apply the wallpaper to the room photo realistically.\n\n")

	b.WriteString(productStatement(product))
	b.WriteString("\n\n")
	b.WriteString(scaleStatement(c))
	b.WriteString("\n\n")
	b.WriteString(areaStatement(mask))
	b.WriteString("\n\n")

	b.WriteString("Keep the original lighting, shadows, perspective, furniture and every surface that is not being papered unchanged. ")
	b.WriteString("Return only the edited photo.")
	return b.String()
}

func productStatement(p models.ProductSelection) string {
	if p.Type == models.SwatchPanorama {
		return fmt.Sprintf(
			"The swatch is a panoramic mural: one continuous design printed across %d rolls, each %s cm wide, with a design height of %s cm. "+
				"Place it once as a single image spanning the wall. Do not tile or repeat it.",
			p.Panorama.TotalRolls, num(p.Panorama.RollWidthCm), num(p.Panorama.DesignHeightCm))
	}
	return fmt.Sprintf(
		"The swatch is a repeating wallpaper pattern sold on rolls %s cm wide and %s m long. "+
			"Tile it seamlessly across the wall and keep the pattern repeat aligned between strips.",
		num(p.Individual.WidthCm), num(p.Individual.LengthM))
}

func scaleStatement(c models.Calibration) string {
	s := fmt.Sprintf("Scale: the user marked a reference that is %s cm long in reality. "+
		"Size the pattern so its physical dimensions match that scale.", num(c.RealWorldValueCm))
	if c.P1 != nil && c.P2 != nil {
		s += fmt.Sprintf(" The reference runs from %s to %s in normalized image coordinates.", coord(*c.P1), coord(*c.P2))
	}
	return s
}

func areaStatement(mask models.WallMask) string {
	if len(mask) == 0 {
		return "Target area: the primary wall surface in the photo."
	}

	coords := make([]string, len(mask))
	for i, p := range mask {
		coords[i] = coord(p)
	}
	return "Target area: strictly within the user polygon guide with these vertices, given as fractions of image width and height: " +
		strings.Join(coords, ", ") + ". Do not paper anything outside the polygon."
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func coord(p models.Point) string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
