package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"wallpaper-planner/internal/common/logging"
	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/imaging"
	"wallpaper-planner/internal/planner/calibration"
	"wallpaper-planner/internal/planner/geometry"
	"wallpaper-planner/internal/planner/interaction"
	"wallpaper-planner/internal/planner/models"
	"wallpaper-planner/internal/session"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Session Handler
// ============================================================

// ImageLimits bounds uploaded images.
type ImageLimits struct {
	MaxBytes int64
	MaxEdge  int
}

// SessionHandler serves the planner workspace API.
type SessionHandler struct {
	sessions    *session.Manager
	swatches    SwatchStore
	renderer    Renderer
	constraints compositor.Constraints
	limits      ImageLimits
	log         *zap.Logger
}

// NewSessionHandler wires the session store, catalog and renderer.
func NewSessionHandler(sessions *session.Manager, swatches SwatchStore, renderer Renderer, constraints compositor.Constraints, limits ImageLimits) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		swatches:    swatches,
		renderer:    renderer,
		constraints: constraints,
		limits:      limits,
		log:         logging.Named("planner"),
	}
}

func (h *SessionHandler) workspace(c fiber.Ctx) (*session.Workspace, error) {
	return h.sessions.Get(c.Params("id"))
}

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

// Create starts a new workspace.
func (h *SessionHandler) Create(c fiber.Ctx) error {
	ws := h.sessions.Create()
	h.log.Info("session created", zap.String("session", ws.ID()))
	return c.Status(http.StatusCreated).JSON(ws.Snapshot())
}

// Get returns the workspace snapshot.
func (h *SessionHandler) Get(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot())
}

// Delete drops the workspace.
func (h *SessionHandler) Delete(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Reset clears calibration points, mask and mode.
func (h *SessionHandler) Reset(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}
	ws.Reset()
	return c.JSON(ws.Snapshot())
}

// ============================================================
// Interaction
// ============================================================

type modeRequest struct {
	Mode string `json:"mode"`
}

// Mode toggles the requested mode: selecting the active mode returns to idle.
func (h *SessionHandler) Mode(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var req modeRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	mode, err := interaction.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ws.Toggle(mode)
	return c.JSON(ws.Snapshot())
}

// pointerRequest carries either a normalized point or a raw pointer position
// with the rendered size of the image.
type pointerRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	PX     float64  `json:"px"`
	PY     float64  `json:"py"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

func (r pointerRequest) point() (models.Point, error) {
	if r.X != nil && r.Y != nil {
		return models.Point{X: *r.X, Y: *r.Y}, nil
	}
	p, ok := interaction.Normalize(r.PX, r.PY, r.Width, r.Height)
	if !ok {
		return models.Point{}, errors.New("either x/y or px/py with a positive width/height is required")
	}
	return p, nil
}

// Pointer feeds a click into the interaction machine.
func (h *SessionHandler) Pointer(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var req pointerRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := req.point()
	if err != nil {
		return badRequest(c, err.Error())
	}

	effect := ws.PointerDown(p)
	return c.JSON(fiber.Map{
		"effect":  effect,
		"session": ws.Snapshot(),
	})
}

type referenceRequest struct {
	ValueCm float64 `json:"value_cm"`
}

// SetReference changes the real length of the calibration segment.
func (h *SessionHandler) SetReference(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var req referenceRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := ws.SetReference(req.ValueCm); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot())
}

// ApplyPreset sets the reference length from a named preset.
func (h *SessionHandler) ApplyPreset(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := ws.ApplyPreset(c.Params("preset")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot())
}

// Presets lists the reference presets.
func Presets(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": calibration.Presets()})
}

type maskRequest struct {
	Path   string         `json:"path"`
	Points []models.Point `json:"points"`
}

// SetMask replaces the wall mask from an SVG-style path or a point list. An
// empty path clears it.
func (h *SessionHandler) SetMask(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var req maskRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	points := req.Points
	if req.Path != "" {
		points, err = geometry.ParsePath(req.Path)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	if err := ws.ReplaceMask(points); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot())
}

// ============================================================
// Product & assets
// ============================================================

// SetProduct updates the product type and dimensions.
func (h *SessionHandler) SetProduct(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var sel models.ProductSelection
	if err := decodeBody(c, &sel); err != nil {
		return badRequest(c, err.Error())
	}
	if err := ws.SetProduct(sel); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot())
}

// SelectSwatch makes a catalog swatch the active product.
func (h *SessionHandler) SelectSwatch(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	s, err := h.swatches.GetByID(c.Context(), c.Params("swatchID"))
	if err != nil {
		return respondError(c, err)
	}

	ws.UpdateProduct(s.Apply)
	return c.JSON(ws.Snapshot())
}

// Estimate returns the current estimate, or 204 when it is undefined.
func (h *SessionHandler) Estimate(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	est := ws.Estimate()
	if est == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(est)
}

// UploadImage stores the room photo or the swatch from a multipart "file".
func (h *SessionHandler) UploadImage(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	kind := session.ImageKind(c.Params("kind"))
	if kind != session.ImageRoom && kind != session.ImageSwatch {
		return badRequest(c, "kind must be room or swatch")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required")
	}
	if h.limits.MaxBytes > 0 && fileHeader.Size > h.limits.MaxBytes {
		return respondError(c, imaging.ErrTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusInternalServerError, codeInternal, "failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fail(c, http.StatusInternalServerError, codeInternal, "failed to read file")
	}

	im, err := imaging.Load(data, h.limits.MaxBytes, h.limits.MaxEdge)
	if err != nil {
		return respondError(c, err)
	}
	if err := ws.SetImage(kind, im); err != nil {
		return badRequest(c, err.Error())
	}

	h.log.Info("image stored",
		zap.String("session", ws.ID()),
		zap.String("kind", string(kind)),
		zap.String("mime", im.MIME),
		zap.Int("width", im.Width),
		zap.Int("height", im.Height),
	)
	return c.Status(http.StatusCreated).JSON(ws.Snapshot())
}

type credentialRequest struct {
	APIKey string `json:"api_key"`
}

// SetCredential stores the compositing API key for this workspace.
func (h *SessionHandler) SetCredential(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	var req credentialRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.APIKey == "" {
		return badRequest(c, "api_key required")
	}

	ws.SetCredential(req.APIKey)
	return c.SendStatus(http.StatusNoContent)
}
