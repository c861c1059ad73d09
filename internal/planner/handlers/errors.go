package handlers

import (
	"errors"
	"net/http"

	"wallpaper-planner/internal/catalog/repository"
	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/imaging"
	"wallpaper-planner/internal/session"

	"github.com/gofiber/fiber/v3"
)

// Error codes returned in the "code" field next to "error".
const (
	codeBadRequest         = "bad_request"
	codeNotFound           = "not_found"
	codeRenderInFlight     = "render_in_flight"
	codeMissingImages      = "missing_images"
	codeCredentialRequired = "credential_required"
	codeCredentialReselect = "credential_reselect"
	codeNoImageData        = "no_image_data"
	codeUpstream           = "upstream_error"
	codeUnsupportedImage   = "unsupported_image"
	codeImageTooLarge      = "image_too_large"
	codeInternal           = "internal_error"
)

func fail(c fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg, "code": code})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, http.StatusBadRequest, codeBadRequest, msg)
}

// respondError maps domain errors onto HTTP responses. Upstream messages are
// passed through unchanged.
func respondError(c fiber.Ctx, err error) error {
	var upstream *compositor.UpstreamError

	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, session.ErrRenderInFlight):
		return fail(c, http.StatusConflict, codeRenderInFlight, err.Error())
	case errors.Is(err, compositor.ErrMissingImages):
		return fail(c, http.StatusPreconditionFailed, codeMissingImages, err.Error())
	case errors.Is(err, session.ErrCredentialRequired):
		return fail(c, http.StatusUnauthorized, codeCredentialRequired, err.Error())
	case errors.Is(err, compositor.ErrCredentialReselect):
		return fail(c, http.StatusUnauthorized, codeCredentialReselect, err.Error())
	case errors.Is(err, compositor.ErrNoImageData):
		return fail(c, http.StatusBadGateway, codeNoImageData, err.Error())
	case errors.As(err, &upstream):
		return fail(c, http.StatusBadGateway, codeUpstream, upstream.Message)
	case errors.Is(err, imaging.ErrTooLarge):
		return fail(c, http.StatusRequestEntityTooLarge, codeImageTooLarge, err.Error())
	case errors.Is(err, imaging.ErrUnsupported), errors.Is(err, imaging.ErrEmpty):
		return fail(c, http.StatusUnsupportedMediaType, codeUnsupportedImage, err.Error())
	case errors.Is(err, session.ErrUnknownPreset),
		errors.Is(err, session.ErrInvalidProduct),
		errors.Is(err, session.ErrInvalidReference),
		errors.Is(err, session.ErrInvalidMask):
		return badRequest(c, err.Error())
	}
	return fail(c, http.StatusInternalServerError, codeInternal, "internal error")
}
