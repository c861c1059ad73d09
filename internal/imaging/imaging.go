// Package imaging validates and normalizes the room and swatch photos
// before they are handed to the compositing service.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmpty       = errors.New("image is empty")
	ErrTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupported = errors.New("unsupported image type, use JPEG, PNG or WebP")
)

var supported = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Image is an encoded image blob with its sniffed type and pixel size.
type Image struct {
	MIME   string
	Data   []byte
	Width  int
	Height int
}

// DataURL returns the self-describing base64 form.
func (im *Image) DataURL() string {
	return "data:" + im.MIME + ";base64," + im.Base64()
}

// Base64 returns the raw bytes in standard base64.
func (im *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(im.Data)
}

// Load sniffs, measures and, when the longest edge exceeds maxEdge,
// downscales the image. maxBytes and maxEdge are ignored when <= 0.
func Load(data []byte, maxBytes int64, maxEdge int) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d > %d bytes)", ErrTooLarge, len(data), maxBytes)
	}

	kind, err := filetype.Match(data)
	if err != nil || !supported[kind.MIME.Value] {
		return nil, ErrUnsupported
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s header: %w", kind.MIME.Value, err)
	}

	im := &Image{MIME: kind.MIME.Value, Data: data, Width: cfg.Width, Height: cfg.Height}
	if maxEdge <= 0 || (cfg.Width <= maxEdge && cfg.Height <= maxEdge) {
		return im, nil
	}
	return downscale(im, maxEdge)
}

func downscale(im *Image, maxEdge int) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(im.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", im.MIME, err)
	}

	w, h := FitWithin(im.Width, im.Height, maxEdge)
	resized := transform.Resize(src, w, h, transform.Linear)

	// WebP has no encoder here, so everything but PNG goes out as JPEG.
	mime := "image/jpeg"
	encode := imgio.JPEGEncoder(90)
	if im.MIME == "image/png" {
		mime = "image/png"
		encode = imgio.PNGEncoder()
	}

	var buf bytes.Buffer
	if err := encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("encode %s: %w", mime, err)
	}

	return &Image{MIME: mime, Data: buf.Bytes(), Width: w, Height: h}, nil
}

// FitWithin scales w x h so the longest edge equals maxEdge, keeping the
// aspect ratio. Each side is at least one pixel.
func FitWithin(w, h, maxEdge int) (int, int) {
	if w <= 0 || h <= 0 || maxEdge <= 0 {
		return w, h
	}
	if w >= h {
		nh := h * maxEdge / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := w * maxEdge / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}
