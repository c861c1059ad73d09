package geometry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"wallpaper-planner/internal/planner/models"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath reads an SVG-like path (M, L, H, V and their relative forms, Z)
// expressed in normalized coordinates. Extra coordinate pairs after M or L
// are treated as implicit line-to commands. A trailing point equal to the
// first one is dropped since polygons are always closed implicitly.
//
// The path must describe a single polygon: it starts with M, has no second
// M and nothing after Z. Every coordinate must be finite.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	matches := pathCommand.FindAllStringSubmatchIndex(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}
	if prefix := strings.TrimSpace(d[:matches[0][0]]); prefix != "" {
		return nil, fmt.Errorf("unexpected %q before first command", prefix)
	}

	var points []models.Point
	var x, y float64
	closed := false

	for i, idx := range matches {
		cmd := d[idx[2]:idx[3]]
		coords, err := parseCoords(d[idx[4]:idx[5]])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}

		if closed {
			return nil, fmt.Errorf("command %s after Z: only one polygon per path", cmd)
		}
		isMove := cmd == "M" || cmd == "m"
		if i == 0 && !isMove {
			return nil, fmt.Errorf("path must start with M, got %s", cmd)
		}
		if i > 0 && isMove {
			return nil, fmt.Errorf("second M: only one polygon per path")
		}

		switch cmd {
		case "M", "L", "m", "l":
			if len(coords) == 0 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s expects coordinate pairs", cmd)
			}
			relative := cmd == "m" || cmd == "l"
			for i := 0; i < len(coords); i += 2 {
				if relative {
					x += coords[i]
					y += coords[i+1]
				} else {
					x, y = coords[i], coords[i+1]
				}
				points = append(points, models.Point{X: x, Y: y})
			}

		case "H", "h":
			if len(coords) == 0 {
				return nil, fmt.Errorf("command %s expects a coordinate", cmd)
			}
			for _, v := range coords {
				if cmd == "h" {
					x += v
				} else {
					x = v
				}
				points = append(points, models.Point{X: x, Y: y})
			}

		case "V", "v":
			if len(coords) == 0 {
				return nil, fmt.Errorf("command %s expects a coordinate", cmd)
			}
			for _, v := range coords {
				if cmd == "v" {
					y += v
				} else {
					y = v
				}
				points = append(points, models.Point{X: x, Y: y})
			}

		case "Z", "z":
			// closing is implicit
			if len(coords) > 0 {
				return nil, fmt.Errorf("command %s takes no coordinates", cmd)
			}
			closed = true
		}

		// relative steps can still overflow
		if len(points) > 0 {
			if p := points[len(points)-1]; !finite(p.X) || !finite(p.Y) {
				return nil, fmt.Errorf("command %s: coordinate out of range", cmd)
			}
		}
	}

	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	return points, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))
	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil || !finite(val) {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		coords = append(coords, val)
	}
	return coords, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FinitePoints reports whether every coordinate is a finite number.
func FinitePoints(points []models.Point) bool {
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return false
		}
	}
	return true
}
