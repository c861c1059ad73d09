package compositor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wallpaper-planner/internal/common/logging"
	"wallpaper-planner/internal/imaging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the composite image returned by the service.
type Result struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// Composer renders a composite from a built request.
type Composer interface {
	Compose(ctx context.Context, apiKey string, req *Request) (*Result, error)
}

// ============================================================
// Wire format
// ============================================================

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string    `json:"responseModalities"`
	ImageConfig        imageConfig `json:"imageConfig"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ============================================================
// Client
// ============================================================

// Client talks to a generateContent-style image endpoint.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

// NewClient targets baseURL/models/<model>:generateContent.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

// Compose sends both images and the instruction and returns the first
// inline image of the answer.
func (c *Client) Compose(ctx context.Context, apiKey string, req *Request) (*Result, error) {
	if req == nil || req.Room == nil || req.Swatch == nil {
		return nil, ErrMissingImages
	}
	log := logging.Named("compositor")

	body, err := c.encode(ctx, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	log.Info("compositing response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamFailure(resp.StatusCode, data)
	}
	return decodeImage(data)
}

// encode prepares both inline image parts in parallel; the payloads are
// several megabytes of base64.
func (c *Client) encode(ctx context.Context, req *Request) ([]byte, error) {
	parts := make([]part, 3)

	g, gctx := errgroup.WithContext(ctx)
	for i, im := range []*imaging.Image{req.Room, req.Swatch} {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if len(im.Data) == 0 {
				return ErrMissingImages
			}
			parts[i] = part{InlineData: &inlineData{MimeType: im.MIME, Data: im.Base64()}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	parts[2] = part{Text: req.Instruction}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: imageConfig{
				AspectRatio: req.Constraints.AspectRatio,
				ImageSize:   req.Constraints.ImageSize,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

func upstreamFailure(status int, data []byte) error {
	msg := strings.TrimSpace(string(data))

	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	// Only a revoked or foreign key produces this message; other 404s (a
	// mistyped model name) are reported as they are.
	if strings.Contains(msg, entityNotFound) {
		return fmt.Errorf("%w: %s", ErrCredentialReselect, msg)
	}
	return &UpstreamError{Status: status, Message: msg}
}

func decodeImage(data []byte) (*Result, error) {
	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var notes []string
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image data: %w", err)
				}
				return &Result{MIME: p.InlineData.MimeType, Data: raw}, nil
			}
			if p.Text != "" {
				notes = append(notes, p.Text)
			}
		}
		if cand.FinishReason != "" && cand.FinishReason != "STOP" {
			notes = append(notes, "finish reason "+cand.FinishReason)
		}
	}
	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		notes = append(notes, "blocked: "+gr.PromptFeedback.BlockReason)
	}

	if len(notes) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImageData, strings.Join(notes, "; "))
	}
	return nil, ErrNoImageData
}
