package pulsebridge

import "context"

// ProviderAdapter defines the interface all adapters must implement.
type ProviderAdapter interface {
	// ExecuteRequest performs a single round trip. A non-nil error means no
	// response was received at all; HTTP error statuses come back as a response.
	ExecuteRequest(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, error)
	ParseRateLimitInfo(resp *NormalizedResponse) (*NormalizedRateLimitInfo, error)

	// IdentifyRequestType inspects the request and returns a call type string
	// used to key rate limit info, e.g. "sessions", "session_metrics" or "pulse".
	IdentifyRequestType(req *NormalizedRequest) string
}
