package route

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"go-docman-client/pkg/apierror"
	"go-docman-client/pkg/model"
)

const RequestIDHeader = "X-Request-ID"

type Options struct {
	BaseURL      string
	BasePath     string
	HTTPClient   *http.Client
	RateLimitRPS float64
	Logger       *slog.Logger
}

// Client executes route requests against one DocMan API base URL.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := int(math.Ceil(opts.RateLimitRPS))
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if basePath := strings.Trim(opts.BasePath, "/"); basePath != "" {
		baseURL += "/" + basePath
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    limiter,
		logger:     logger.With(slog.String("component", "docman_route")),
	}
}

// Request describes one endpoint call. Path is relative to the base path and already escaped.
type Request struct {
	Resource  string
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      any
}

func (c *Client) url(req Request) string {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Do sends req and decodes a successful body into T.
// The envelope is never nil. The returned error is the envelope's error detail
// and is non-nil for transport failures and non-2xx statuses alike.
func Do[T any](ctx context.Context, c *Client, req Request) (*model.Response[T], error) {
	requestID := uuid.NewString()
	resp := &model.Response[T]{Headers: http.Header{}}
	resp.Headers.Set(RequestIDHeader, requestID)

	fail := func(apiErr *apierror.APIError) (*model.Response[T], error) {
		resp.IsSuccess = false
		resp.Error = apiErr.WithOperation(req.Resource, req.Operation)
		return resp, resp.Error
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(transportError(err))
		}
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fail(apierror.New("INVALID_REQUEST", "Request body could not be encoded", err.Error(), 0).
				WithCause(fmt.Errorf("%w: %w", model.ErrInvalidInput, err)))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req), body)
	if err != nil {
		return fail(apierror.New("INVALID_REQUEST", "Request could not be built", err.Error(), 0).
			WithCause(fmt.Errorf("%w: %w", model.ErrInvalidInput, err)))
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fail(transportError(err))
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		resp.StatusCode = httpResp.StatusCode
		return fail(transportError(fmt.Errorf("read response: %w", err)))
	}

	for key, values := range httpResp.Header {
		resp.Headers[key] = values
	}
	if resp.Headers.Get(RequestIDHeader) == "" {
		resp.Headers.Set(RequestIDHeader, requestID)
	}
	resp.StatusCode = httpResp.StatusCode

	c.logger.DebugContext(ctx, "docman request",
		"request_id", requestID,
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fail(statusError(httpResp.StatusCode, raw))
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if _, empty := any(resp.Payload).(model.NoContent); !empty {
			if err := json.Unmarshal(raw, &resp.Payload); err != nil {
				return fail(apierror.New("DECODE_ERROR", "Response body could not be decoded", err.Error(), httpResp.StatusCode).
					WithCause(fmt.Errorf("%w: %w", model.ErrDecode, err)))
			}
		}
	}

	resp.IsSuccess = true
	return resp, nil
}

func transportError(err error) *apierror.APIError {
	return apierror.New("TRANSPORT_ERROR", "Request to DocMan API failed", err.Error(), 0).
		WithCause(fmt.Errorf("%w: %w", model.ErrTransport, err))
}

// statusError maps a non-2xx reply to an APIError, preferring the API's own error body.
func statusError(status int, raw []byte) *apierror.APIError {
	var cause error
	code := "UNEXPECTED_STATUS"
	switch {
	case status == http.StatusNotFound:
		code, cause = "NOT_FOUND", model.ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code, cause = "BAD_REQUEST", model.ErrInvalidInput
	case status == http.StatusConflict:
		code, cause = "CONFLICT", model.ErrConflict
	default:
		cause = model.ErrUnexpectedStatus
	}

	apiErr := apierror.New(code, http.StatusText(status), "", status)

	var parsed model.APIResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil {
		if parsed.Error.Code != "" {
			apiErr.Code = parsed.Error.Code
		}
		if parsed.Error.Message != "" {
			apiErr.Message = parsed.Error.Message
		}
		apiErr.Details = parsed.Error.Details
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Details = truncate(text, 512)
	}

	if !errors.Is(cause, model.ErrUnexpectedStatus) {
		cause = fmt.Errorf("%w: %w", model.ErrUnexpectedStatus, cause)
	}

	return apiErr.WithCause(cause)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// path joins escaped segments into a route path.
func path(segments ...string) string {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}
