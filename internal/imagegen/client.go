package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 5 * time.Minute
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit spaces calls to at most perMinute per minute. Zero or a
// negative value disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l.With("module", "imagegen") }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate creates images from a prompt.
func (c *Client) Generate(ctx context.Context, apiKey string, req GenerateRequest) (*Response, error) {
	body := map[string]any{
		"prompt": req.Prompt,
		"n":      req.N,
		"size":   req.Size,
		"model":  req.Model,
	}
	if req.Model == models.ModelGPTImage1 {
		o := req.Options
		setIfNotEmpty(body, "background", string(o.Background))
		setIfNotEmpty(body, "moderation", string(o.Moderation))
		setIfNotEmpty(body, "output_format", string(o.OutputFormat))
		setIfNotEmpty(body, "quality", string(o.Quality))
		// png output does not accept a compression level
		if o.OutputCompression != nil && o.OutputFormat != "" && o.OutputFormat != models.FormatPNG {
			body["output_compression"] = *o.OutputCompression
		}
	} else {
		body["response_format"] = "b64_json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return c.do(ctx, apiKey, "/images/generations", "application/json", payload, fallbackGenerate)
}

// Vary creates variations of a source image.
func (c *Client) Vary(ctx context.Context, apiKey string, req VariationRequest) (*Response, error) {
	form := newForm()
	form.file("image", "image", req.Image)
	form.field("n", strconv.Itoa(req.N))
	form.field("size", string(req.Size))
	form.field("model", string(req.Model))
	if req.Model != models.ModelGPTImage1 {
		form.field("response_format", "b64_json")
	}

	payload, contentType, err := form.close()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, apiKey, "/images/variations", contentType, payload, fallbackVariation)
}

// Edit regenerates the transparent area of mask over the source image.
func (c *Client) Edit(ctx context.Context, apiKey string, req EditRequest) (*Response, error) {
	form := newForm()
	form.file("image", "image", req.Image)
	form.file("mask", "mask", req.Mask)
	form.field("prompt", req.Prompt)
	form.field("n", strconv.Itoa(req.N))
	form.field("size", string(req.Size))
	form.field("model", string(req.Model))
	if req.Model != models.ModelGPTImage1 {
		form.field("response_format", "b64_json")
	}

	payload, contentType, err := form.close()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, apiKey, "/images/edits", contentType, payload, fallbackEdit)
}

func (c *Client) do(ctx context.Context, apiKey, path, contentType string, payload []byte, fallback string) (*Response, error) {
	if apiKey == "" {
		return nil, common.ErrNoAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", contentType)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug(ctx, "images call finished", "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, body, fallback)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// form accumulates a multipart body and remembers the first write error.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *form) file(field, name string, img models.Image) {
	if f.err != nil {
		return
	}
	if img.ContentType == "" {
		img.ContentType = models.DefaultContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name+img.Extension()))
	h.Set("Content-Type", img.ContentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(img.Data)
}

func (f *form) close() ([]byte, string, error) {
	if f.err == nil {
		f.err = f.w.Close()
	}
	if f.err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", f.err)
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}
