package handlers

import (
	"context"

	"wallpaper-planner/internal/catalog/models"

	"github.com/gofiber/fiber/v3"
)

// SwatchStore is the read side of the swatch catalog.
type SwatchStore interface {
	List(ctx context.Context) ([]models.Swatch, error)
	GetByID(ctx context.Context, id string) (*models.Swatch, error)
}

// ============================================================
// Catalog Handler
// ============================================================

// CatalogHandler exposes the read-only swatch catalog.
type CatalogHandler struct {
	store SwatchStore
}

// NewCatalogHandler serves swatches from store.
func NewCatalogHandler(store SwatchStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// List returns all swatches.
func (h *CatalogHandler) List(c fiber.Ctx) error {
	swatches, err := h.store.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if swatches == nil {
		swatches = []models.Swatch{}
	}
	return c.JSON(fiber.Map{"swatches": swatches})
}

// Get returns one swatch by ID.
func (h *CatalogHandler) Get(c fiber.Ctx) error {
	s, err := h.store.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}
