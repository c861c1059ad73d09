package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/imaging"
	"wallpaper-planner/internal/planner/calibration"
	"wallpaper-planner/internal/planner/estimate"
	"wallpaper-planner/internal/planner/geometry"
	"wallpaper-planner/internal/planner/interaction"
	"wallpaper-planner/internal/planner/models"
)

var (
	ErrRenderInFlight     = errors.New("a render is already in progress for this session")
	ErrCredentialRequired = errors.New("a compositing credential must be selected")
	ErrUnknownPreset      = errors.New("unknown reference preset")
	ErrInvalidProduct     = errors.New("invalid product selection")
	ErrInvalidReference   = errors.New("reference length must be a positive number")
	ErrInvalidMask        = errors.New("mask coordinates must be finite numbers")
)

// ImageKind names the two image slots of a workspace.
type ImageKind string

const (
	ImageRoom   ImageKind = "room"
	ImageSwatch ImageKind = "swatch"
)

// ============================================================
// Workspace
// ============================================================

// Workspace is one user's planning state. The interaction machine is the
// only writer of calibration and mask; everything else is read through
// Snapshot.
type Workspace struct {
	mu sync.Mutex

	id       string
	machine  *interaction.Machine
	product  models.ProductSelection
	room     *imaging.Image
	swatch   *imaging.Image
	apiKey   string
	lastSeen time.Time

	rendering bool
}

func newWorkspace(id string, referenceCm float64, apiKey string, now time.Time) *Workspace {
	return &Workspace{
		id:      id,
		machine: interaction.NewMachine(referenceCm),
		product: models.ProductSelection{
			Type:       models.SwatchIndividual,
			Individual: models.IndividualSpec{WidthCm: 53, LengthM: 10.05},
			Panorama:   models.PanoramaSpec{RollWidthCm: 50, TotalRolls: 6, DesignHeightCm: 280},
		},
		apiKey:   apiKey,
		lastSeen: now,
	}
}

// ID returns the session ID.
func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.rendering && w.lastSeen.Before(cutoff)
}

// ============================================================
// Interaction
// ============================================================

// Toggle switches the input mode and returns the new one.
func (w *Workspace) Toggle(mode interaction.Mode) interaction.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.machine.Toggle(mode)
}

// PointerDown forwards a normalized click to the interaction machine. Points
// with non-finite coordinates are ignored.
func (w *Workspace) PointerDown(p models.Point) interaction.Effect {
	if !geometry.FinitePoints([]models.Point{p}) {
		return interaction.EffectNone
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.machine.PointerDown(p)
}

// SetReference sets the calibration length; it must be positive.
func (w *Workspace) SetReference(valueCm float64) error {
	if !(valueCm > 0) {
		return ErrInvalidReference
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.machine.SetReference(valueCm)
	return nil
}

// ApplyPreset sets the calibration length from a named preset.
func (w *Workspace) ApplyPreset(name string) (calibration.Preset, error) {
	p, ok := calibration.LookupPreset(name)
	if !ok {
		return calibration.Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.machine.SetReference(p.ValueCm)
	return p, nil
}

// ReplaceMask swaps the whole wall polygon. An empty list clears it.
func (w *Workspace) ReplaceMask(points []models.Point) error {
	if !geometry.FinitePoints(points) {
		return ErrInvalidMask
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.machine.ReplaceMask(points)
	return nil
}

// Reset clears segment, mask and mode. Product, images and credential stay.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.machine.Reset()
}

// ============================================================
// Product & assets
// ============================================================

// SetProduct replaces the product selection. Only the type is validated;
// unusable dimensions simply make the estimate undefined.
func (w *Workspace) SetProduct(sel models.ProductSelection) error {
	if !sel.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidProduct, sel.Type)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.product = sel
	return nil
}

// UpdateProduct applies fn to the current selection under the lock.
func (w *Workspace) UpdateProduct(fn func(models.ProductSelection) models.ProductSelection) models.ProductSelection {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.product = fn(w.product)
	return w.product
}

// SetImage replaces the room photo or the swatch texture.
func (w *Workspace) SetImage(kind ImageKind, im *imaging.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch kind {
	case ImageRoom:
		w.room = im
	case ImageSwatch:
		w.swatch = im
	default:
		return fmt.Errorf("unknown image kind %q", kind)
	}
	return nil
}

// SetCredential replaces the compositing API key.
func (w *Workspace) SetCredential(apiKey string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.apiKey = apiKey
}

// ============================================================
// Reads
// ============================================================

// ImageInfo describes a stored image without its bytes.
type ImageInfo struct {
	MIME   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

func infoOf(im *imaging.Image) *ImageInfo {
	if im == nil {
		return nil
	}
	return &ImageInfo{MIME: im.MIME, Width: im.Width, Height: im.Height, Bytes: len(im.Data)}
}

// Snapshot is an immutable copy of the workspace with a freshly computed
// estimate.
type Snapshot struct {
	ID             string                  `json:"id"`
	Mode           interaction.Mode        `json:"mode"`
	Calibration    models.Calibration      `json:"calibration"`
	ScaleCmPerUnit *float64                `json:"scale_cm_per_unit"`
	Mask           models.WallMask         `json:"mask"`
	Product        models.ProductSelection `json:"product"`
	Room           *ImageInfo              `json:"room"`
	Swatch         *ImageInfo              `json:"swatch"`
	HasCredential  bool                    `json:"has_credential"`
	Rendering      bool                    `json:"rendering"`
	Estimate       *models.EstimateResult  `json:"estimate"`
}

// Snapshot returns a copy of the state with a fresh estimate.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		ID:            w.id,
		Mode:          w.machine.Mode(),
		Calibration:   w.machine.Calibration(),
		Mask:          w.machine.Mask(),
		Product:       w.product,
		Room:          infoOf(w.room),
		Swatch:        infoOf(w.swatch),
		HasCredential: w.apiKey != "",
		Rendering:     w.rendering,
	}
	if s.Mask == nil {
		s.Mask = models.WallMask{}
	}
	if f, ok := calibration.ScaleFactor(s.Calibration); ok {
		s.ScaleCmPerUnit = &f
	}
	s.Estimate = estimate.Estimate(s.Calibration, s.Mask, s.Product)
	return s
}

// Estimate recomputes the quantities from the current state.
func (w *Workspace) Estimate() *models.EstimateResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return estimate.Estimate(w.machine.Calibration(), w.machine.Mask(), w.product)
}

// ============================================================
// Render gating
// ============================================================

// RenderTicket carries what a render needs, copied out of the workspace.
type RenderTicket struct {
	APIKey string
	Inputs compositor.Inputs
}

// BeginRender reserves the single render slot. The caller must pass the
// outcome to EndRender.
func (w *Workspace) BeginRender(constraints compositor.Constraints) (*RenderTicket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rendering {
		return nil, ErrRenderInFlight
	}
	if w.room == nil || w.swatch == nil {
		return nil, compositor.ErrMissingImages
	}
	if w.apiKey == "" {
		return nil, ErrCredentialRequired
	}

	w.rendering = true
	return &RenderTicket{
		APIKey: w.apiKey,
		Inputs: compositor.Inputs{
			Room:        w.room,
			Swatch:      w.swatch,
			Calibration: w.machine.Calibration(),
			Mask:        w.machine.Mask(),
			Product:     w.product,
			Constraints: constraints,
		},
	}, nil
}

// EndRender releases the render slot. A credential rejection clears the
// stored key so the next render requires a new one.
func (w *Workspace) EndRender(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rendering = false
	if errors.Is(err, compositor.ErrCredentialReselect) {
		w.apiKey = ""
	}
}
