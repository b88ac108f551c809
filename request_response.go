package pulsebridge

import "net/http"

// NormalizedRequest is the canonical request every RequestDescriptor resolves to
// before dispatch. URL is always populated from Path.
type NormalizedRequest struct {
	Method  string
	Path    string
	URL     string
	Headers map[string]string
	Body    []byte
}

type NormalizedResponse struct {
	StatusCode int
	Headers    map[string]string
	Data       []byte
}

type NormalizedRateLimitInfo struct {
	MaxRequests       *int
	RemainingRequests *int
	ResetRequestsAt   *int64
}

// RequestDescriptor is either a bare Path or a *Descriptor carrying transport options.
type RequestDescriptor interface {
	Resolve() *NormalizedRequest
}

// Path is a bare request target. It resolves to a GET with no extra headers.
type Path string

func (p Path) Resolve() *NormalizedRequest {
	return &NormalizedRequest{
		Method:  http.MethodGet,
		Path:    string(p),
		URL:     string(p),
		Headers: map[string]string{},
	}
}

// Descriptor is the structured form of a request target.
type Descriptor struct {
	Path    string
	Method  string
	Headers map[string]string
	Body    []byte
}

func (d *Descriptor) Resolve() *NormalizedRequest {
	method := d.Method
	if method == "" {
		method = http.MethodGet
	}
	headers := make(map[string]string, len(d.Headers))
	for k, v := range d.Headers {
		headers[k] = v
	}
	return &NormalizedRequest{
		Method:  method,
		Path:    d.Path,
		URL:     d.Path,
		Headers: headers,
		Body:    d.Body,
	}
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr returns a pointer to i.
func Int64Ptr(i int64) *int64 {
	return &i
}
