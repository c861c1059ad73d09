package handlers

import (
	"encoding/json"
	"net/http"

	"wallpaper-planner/internal/planner/calibration"
	"wallpaper-planner/internal/planner/estimate"
	"wallpaper-planner/internal/planner/geometry"
	"wallpaper-planner/internal/planner/models"

	"github.com/gofiber/fiber/v3"
)

// estimateRequest is a full snapshot. The mask may be given either as points
// or as an SVG-style path.
type estimateRequest struct {
	Calibration models.Calibration      `json:"calibration"`
	Mask        models.WallMask         `json:"mask"`
	Path        string                  `json:"path"`
	Product     models.ProductSelection `json:"product"`
}

type estimateResponse struct {
	ScaleCmPerUnit *float64               `json:"scale_cm_per_unit"`
	Estimate       *models.EstimateResult `json:"estimate"`
}

// Estimate computes quantities without touching any session. An undefined
// estimate is returned as null, not as an error.
func Estimate(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "empty body")
	}

	var req estimateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if !req.Product.Type.Valid() {
		return badRequest(c, "product.type must be INDIVIDUAL or PANORAMA")
	}

	mask := req.Mask
	if req.Path != "" {
		points, err := geometry.ParsePath(req.Path)
		if err != nil {
			return badRequest(c, err.Error())
		}
		mask = points
	}
	if !geometry.FinitePoints(mask) {
		return badRequest(c, "mask coordinates must be finite numbers")
	}

	resp := estimateResponse{
		Estimate: estimate.Estimate(req.Calibration, mask, req.Product),
	}
	if f, ok := calibration.ScaleFactor(req.Calibration); ok {
		resp.ScaleCmPerUnit = &f
	}
	return c.Status(http.StatusOK).JSON(resp)
}
