package handlers

import (
	"context"
	"strconv"

	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/session"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// Renderer produces a composite for a built request. The bool reports a
// cache hit.
type Renderer interface {
	Render(ctx context.Context, apiKey string, req *compositor.Request) (*compositor.Result, bool, error)
}

// Render composites the swatch onto the room photo. Only one render per
// session runs at a time; the workspace state is not changed by a failure
// except that a rejected credential is cleared.
func (h *SessionHandler) Render(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return respondError(c, err)
	}

	ticket, err := ws.BeginRender(h.constraints)
	if err != nil {
		return respondError(c, err)
	}

	res, cached, err := h.render(c.Context(), ws, ticket)
	if err != nil {
		h.log.Warn("render failed", zap.String("session", ws.ID()), zap.Error(err))
		return respondError(c, err)
	}

	h.log.Info("render done",
		zap.String("session", ws.ID()),
		zap.Bool("cached", cached),
		zap.Int("bytes", len(res.Data)),
	)
	c.Set("Content-Type", res.MIME)
	c.Set("X-Render-Cached", strconv.FormatBool(cached))
	return c.Send(res.Data)
}

// render runs one composite and always releases the render slot, also when
// the renderer panics.
func (h *SessionHandler) render(ctx context.Context, ws *session.Workspace, ticket *session.RenderTicket) (res *compositor.Result, cached bool, err error) {
	defer func() { ws.EndRender(err) }()

	req, err := compositor.BuildRequest(ticket.Inputs)
	if err != nil {
		return nil, false, err
	}
	return h.renderer.Render(ctx, ticket.APIKey, req)
}
