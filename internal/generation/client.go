package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fpang/ai-headshot-pro/internal/metrics"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultTimeout bounds a single edit call. Image edits usually take 10-30s.
const DefaultTimeout = 120 * time.Second

// metricsNamespace groups the EMF metrics emitted by this package.
const metricsNamespace = "AiHeadshotPro"

// ContentGenerator is the part of the genai SDK the client needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Client.
type Options struct {
	// Model is the image model ID. Empty means GetModelName().
	Model string
	// Timeout bounds each Submit. Zero means DefaultTimeout.
	Timeout time.Duration
	// APIKey is called the first time a request needs credentials.
	APIKey func() (string, error)
	// Generator replaces the genai client; used by tests.
	Generator ContentGenerator
}

// Client sends edit requests to Gemini and extracts the returned image.
// It is safe for concurrent use.
type Client struct {
	model   string
	timeout time.Duration
	apiKey  func() (string, error)

	mu  sync.Mutex
	gen ContentGenerator
}

// NewClient creates a Client. No network call is made until Submit or Ping.
func NewClient(opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = GetModelName()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		model:   model,
		timeout: timeout,
		apiKey:  opts.APIKey,
		gen:     opts.Generator,
	}
}

// Model returns the configured model ID.
func (c *Client) Model() string {
	return c.model
}

// Timeout returns the per-request deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// generator returns the SDK handle, creating it from the API key on first use.
func (c *Client) generator(ctx context.Context) (ContentGenerator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != nil {
		return c.gen, nil
	}

	if c.apiKey == nil {
		return nil, newTransportError(KindNoKey, "No API key configured. Set GEMINI_API_KEY.", nil)
	}
	key, err := c.apiKey()
	if err != nil || strings.TrimSpace(key) == "" {
		return nil, newTransportError(KindNoKey, "No API key configured. Set GEMINI_API_KEY.", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, newTransportError(KindUnknown, fmt.Sprintf("failed to create Gemini client: %v", err), err)
	}

	log.Info().Str("model", c.model).Msg("Gemini client initialized")

	c.gen = client.Models
	return c.gen, nil
}

// Submit sends the image and prompt as a single user message and returns the
// first inline image in the response. Output is not deterministic: the same
// request can produce a different image on every call.
func (c *Client) Submit(ctx context.Context, req *Request) (*Image, error) {
	if req == nil || req.Asset == nil {
		return nil, ErrMissingImage
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	img, err := c.submit(ctx, req)
	c.record(err, time.Since(startTime))

	if err != nil {
		return nil, err
	}

	log.Info().
		Str("model", c.model).
		Str("output_mime", img.MIMEType).
		Int("output_encoded_len", len(img.Data)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini image editing complete")

	return img, nil
}

func (c *Client) submit(ctx context.Context, req *Request) (*Image, error) {
	gen, err := c.generator(ctx)
	if err != nil {
		return nil, classifyError(err)
	}

	log.Info().
		Str("model", c.model).
		Str("style", req.StyleID).
		Int("image_bytes", len(req.Asset.Raw)).
		Str("image_mime", req.Asset.MIMEType).
		Msg("Sending image to Gemini for editing")

	parts := []*genai.Part{
		{
			InlineData: &genai.Blob{
				MIMEType: req.Asset.MIMEType,
				Data:     req.Asset.Raw,
			},
		},
		genai.NewPartFromText(req.Prompt()),
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyError(fmt.Errorf("%w: %v", ctxErr, err))
		}
		return nil, classifyError(err)
	}

	return extractImage(resp)
}

// extractImage scans the first candidate's parts in order and returns the
// first one carrying inline data. Text parts are logged and skipped.
func extractImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, newTransportError(KindMalformed, "Gemini returned no candidates.", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		reason := "Gemini returned an empty candidate."
		if candidate.FinishReason != "" {
			reason = fmt.Sprintf("Gemini returned no content (finish reason: %s).", candidate.FinishReason)
		}
		return nil, newTransportError(KindMalformed, reason, nil)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &Image{
				MIMEType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
			}, nil
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	log.Warn().
		Str("text", truncateString(text.String(), 200)).
		Msg("Gemini response contained no image")

	return nil, ErrNoImageReturned
}

// Ping makes a minimal text request to confirm the API key works.
func (c *Client) Ping(ctx context.Context) error {
	log.Debug().Msg("Validating API key with Gemini API")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gen, err := c.generator(ctx)
	if err != nil {
		return classifyError(err)
	}

	start := time.Now()
	resp, err := gen.GenerateContent(ctx, ModelGemini25FlashLite, genai.Text("hi"), nil)
	if err != nil {
		return classifyError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		log.Warn().Msg("API key validation returned empty response")
		return newTransportError(KindMalformed, "API returned empty response", nil)
	}

	log.Info().Dur("duration", time.Since(start)).Msg("API key validated successfully")
	return nil
}

// record emits one EMF line per Submit.
func (c *Client) record(err error, elapsed time.Duration) {
	result := "success"
	var te *TransportError
	switch {
	case err == nil:
	case errors.Is(err, ErrNoImageReturned):
		result = "no_image"
	case errors.As(err, &te):
		result = te.Kind.String()
	default:
		result = "error"
	}

	metrics.New(metricsNamespace).
		Dimension("Result", result).
		Property("model", c.model).
		Metric("GenerationLatencyMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Count("GenerationAttempt").
		Flush()
}

// truncateString truncates a string to maxLen, appending "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
