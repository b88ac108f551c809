package mock

import (
	"context"
	"sync"
	"time"

	pulsebridge "github.com/opengovern/stream-pulse-bridge"
)

// Response is a canned reply served by MockAdapter.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Err        error         // returned instead of a response, simulating a network failure
	Delay      time.Duration // how long to wait before answering; the context can cut it short
}

// MockAdapter serves canned responses keyed by request URL and records every
// request it receives.
type MockAdapter struct {
	Responses map[string]Response
	Default   Response // served when no URL matches

	mu       sync.Mutex
	requests []*pulsebridge.NormalizedRequest
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		Responses: make(map[string]Response),
		Default:   Response{StatusCode: 200, Body: []byte(`{"success":true}`)},
	}
}

// On registers a 200 response with the given body for url.
func (m *MockAdapter) On(url string, body string) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[url] = Response{StatusCode: 200, Body: []byte(body)}
	return m
}

// OnStatus registers a response with the given status and body for url.
func (m *MockAdapter) OnStatus(url string, status int, body string) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[url] = Response{StatusCode: status, Body: []byte(body)}
	return m
}

// OnError makes requests to url fail without a response.
func (m *MockAdapter) OnError(url string, err error) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[url] = Response{Err: err}
	return m
}

func (m *MockAdapter) ExecuteRequest(ctx context.Context, req *pulsebridge.NormalizedRequest) (*pulsebridge.NormalizedResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	canned, ok := m.Responses[req.URL]
	if !ok {
		canned = m.Default
	}
	m.mu.Unlock()

	if canned.Delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(canned.Delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if canned.Err != nil {
		return nil, canned.Err
	}

	headers := canned.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return &pulsebridge.NormalizedResponse{
		StatusCode: canned.StatusCode,
		Headers:    headers,
		Data:       canned.Body,
	}, nil
}

func (m *MockAdapter) ParseRateLimitInfo(resp *pulsebridge.NormalizedResponse) (*pulsebridge.NormalizedRateLimitInfo, error) {
	return nil, nil
}

func (m *MockAdapter) IdentifyRequestType(req *pulsebridge.NormalizedRequest) string {
	return "mock"
}

// Requests returns the requests received so far.
func (m *MockAdapter) Requests() []*pulsebridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pulsebridge.NormalizedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastURL returns the URL of the most recent request, or "" if none.
func (m *MockAdapter) LastURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1].URL
}
