package compositor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingImages is returned before any request is built when the
	// room photo or the swatch is absent.
	ErrMissingImages = errors.New("both a room photo and a wallpaper swatch are required")

	// ErrNoImageData means the service answered but returned no image.
	ErrNoImageData = errors.New("compositing service returned no image data")

	// ErrCredentialReselect means the upstream rejected the key as an unknown
	// entity; a new credential must be chosen before retrying.
	ErrCredentialReselect = errors.New("credential must be reselected")
)

// entityNotFound is the upstream message that triggers ErrCredentialReselect.
const entityNotFound = "Requested entity was not found"

// UpstreamError is a generic failure from the compositing service. Message
// is the upstream text, unmodified.
type UpstreamError struct {
	Status  int
	Message string
}

// Error includes the HTTP status when one is known.
func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("compositing service error (%d): %s", e.Status, e.Message)
}
