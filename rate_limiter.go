// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which stores the rate limit information the
// analytics services report for each provider and call type.
//
// Responsibilities:
// - Storing rate limit info keyed by "provider:callType".
// - Reporting whether the last known budget is exhausted and how long until it resets.
//
// The bridge never waits on or rejects a request because of this information; it is
// kept for callers that want to pace themselves.
package pulsebridge

import (
	"sync"
	"time"
)

type RateLimiter struct {
	mu             sync.Mutex
	providerLimits map[string]*NormalizedRateLimitInfo
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		providerLimits: make(map[string]*NormalizedRateLimitInfo),
	}
}

// UpdateRateLimits replaces the stored rate limit info for a given provider and call type.
func (r *RateLimiter) UpdateRateLimits(provider string, callType string, info *NormalizedRateLimitInfo) {
	if info == nil || (info.MaxRequests == nil && info.RemainingRequests == nil && info.ResetRequestsAt == nil) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providerLimits[provider+":"+callType] = info
}

// Exhausted reports whether the last response for provider/callType left no
// remaining requests and the reset time is still in the future.
func (r *RateLimiter) Exhausted(provider string, callType string) bool {
	return r.DelayBeforeNextRequest(provider, callType) > 0
}

// DelayBeforeNextRequest returns how long until the known budget resets, or zero
// when there is no exhausted budget on record.
func (r *RateLimiter) DelayBeforeNextRequest(provider string, callType string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.providerLimits[provider+":"+callType]
	if !ok || info == nil {
		return 0
	}

	if info.RemainingRequests != nil && *info.RemainingRequests <= 0 && info.ResetRequestsAt != nil {
		nowMs := time.Now().UnixMilli()
		if nowMs < *info.ResetRequestsAt {
			return time.Duration(*info.ResetRequestsAt-nowMs) * time.Millisecond
		}
	}

	return 0
}

// GetRateLimitInfo returns a copy of the rate limit info for a given provider and call type.
func (r *RateLimiter) GetRateLimitInfo(provider string, callType string) *NormalizedRateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.providerLimits[provider+":"+callType]; ok {
		copyInfo := *info
		return &copyInfo
	}
	return nil
}
