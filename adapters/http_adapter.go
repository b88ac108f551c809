package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	pulsebridge "github.com/opengovern/stream-pulse-bridge"
	"github.com/opengovern/stream-pulse-bridge/internal"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultContentType = "application/json"

	CallTypeSessions       = "sessions"
	CallTypeSessionMetrics = "session_metrics"
	CallTypePulse          = "pulse"
)

// HTTPAdapter sends requests to the analytics and stats services. The request
// URL is used as-is, so the caller composes the full URI from its base path.
// The underlying client is built once and never reconfigured.
type HTTPAdapter struct {
	client      *http.Client
	tokenSource oauth2.TokenSource
}

type HTTPAdapterOption func(*HTTPAdapter)

// WithTimeout overrides the 30s client timeout.
func WithTimeout(timeout time.Duration) HTTPAdapterOption {
	return func(h *HTTPAdapter) {
		if timeout > 0 {
			h.client.Timeout = timeout
		}
	}
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts oauth2.TokenSource) HTTPAdapterOption {
	return func(h *HTTPAdapter) {
		h.tokenSource = ts
	}
}

// WithTransport replaces the client's round tripper.
func WithTransport(rt http.RoundTripper) HTTPAdapterOption {
	return func(h *HTTPAdapter) {
		h.client.Transport = rt
	}
}

func NewHTTPAdapter(opts ...HTTPAdapterOption) *HTTPAdapter {
	h := &HTTPAdapter{
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Timeout reports the client timeout in effect.
func (h *HTTPAdapter) Timeout() time.Duration {
	return h.client.Timeout
}

func (h *HTTPAdapter) ExecuteRequest(ctx context.Context, req *pulsebridge.NormalizedRequest) (*pulsebridge.NormalizedResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", DefaultContentType)
	}
	if httpReq.Header.Get("X-Request-Id") == "" {
		httpReq.Header.Set("X-Request-Id", uuid.NewString())
	}
	if httpReq.Header.Get("Authorization") == "" && h.tokenSource != nil {
		tok, err := h.tokenSource.Token()
		if err != nil {
			return nil, err
		}
		tok.SetAuthHeader(httpReq)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string)
	for k, vals := range resp.Header {
		if len(vals) > 0 {
			headers[strings.ToLower(k)] = vals[0]
		}
	}

	return &pulsebridge.NormalizedResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Data:       data,
	}, nil
}

func (h *HTTPAdapter) ParseRateLimitInfo(resp *pulsebridge.NormalizedResponse) (*pulsebridge.NormalizedRateLimitInfo, error) {
	hdr := resp.Headers
	parseInt := func(key string) *int {
		if val, ok := hdr[key]; ok {
			if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return pulsebridge.IntPtr(i)
			}
		}
		return nil
	}

	info := &pulsebridge.NormalizedRateLimitInfo{
		MaxRequests:       parseInt("x-ratelimit-limit"),
		RemainingRequests: parseInt("x-ratelimit-remaining"),
	}
	if val, ok := hdr["x-ratelimit-reset"]; ok {
		if ms, ok := internal.ParseReset(val); ok {
			info.ResetRequestsAt = pulsebridge.Int64Ptr(ms)
		}
	}

	// retry-after is only present when the service is throttling us.
	if val, ok := hdr["retry-after"]; ok {
		if future, ok := internal.ParseRetryAfter(val, time.Now()); ok {
			if info.ResetRequestsAt == nil || future > *info.ResetRequestsAt {
				info.ResetRequestsAt = pulsebridge.Int64Ptr(future)
			}
			if info.RemainingRequests == nil {
				info.RemainingRequests = pulsebridge.IntPtr(0)
			}
		}
	}

	return info, nil
}

func (h *HTTPAdapter) IdentifyRequestType(req *pulsebridge.NormalizedRequest) string {
	switch {
	case strings.Contains(req.URL, "/api/metrics/session/"):
		return CallTypeSessionMetrics
	case strings.Contains(req.URL, "/api/session/"):
		return CallTypeSessions
	default:
		return CallTypePulse
	}
}
