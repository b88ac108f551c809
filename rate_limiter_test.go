package pulsebridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterTracksExhaustedBudget(t *testing.T) {
	r := NewRateLimiter()
	assert.Nil(t, r.GetRateLimitInfo("stats", "pulse"))
	assert.False(t, r.Exhausted("stats", "pulse"))

	reset := time.Now().Add(time.Minute).UnixMilli()
	r.UpdateRateLimits("stats", "pulse", &NormalizedRateLimitInfo{
		MaxRequests:       IntPtr(10),
		RemainingRequests: IntPtr(0),
		ResetRequestsAt:   &reset,
	})

	assert.True(t, r.Exhausted("stats", "pulse"))
	assert.False(t, r.Exhausted("stats", "sessions"))
	delay := r.DelayBeforeNextRequest("stats", "pulse")
	assert.True(t, delay > 0 && delay <= time.Minute)

	info := r.GetRateLimitInfo("stats", "pulse")
	if assert.NotNil(t, info) {
		assert.Equal(t, 10, *info.MaxRequests)
	}
}

func TestRateLimiterIgnoresEmptyInfo(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateRateLimits("stats", "pulse", &NormalizedRateLimitInfo{MaxRequests: IntPtr(5)})
	r.UpdateRateLimits("stats", "pulse", &NormalizedRateLimitInfo{})
	r.UpdateRateLimits("stats", "pulse", nil)

	info := r.GetRateLimitInfo("stats", "pulse")
	if assert.NotNil(t, info) {
		assert.Equal(t, 5, *info.MaxRequests)
	}
}

func TestRateLimiterPastResetIsNotExhausted(t *testing.T) {
	r := NewRateLimiter()
	past := time.Now().Add(-time.Second).UnixMilli()
	r.UpdateRateLimits("analytics", "sessions", &NormalizedRateLimitInfo{
		RemainingRequests: IntPtr(0),
		ResetRequestsAt:   &past,
	})
	assert.False(t, r.Exhausted("analytics", "sessions"))
	assert.Equal(t, time.Duration(0), r.DelayBeforeNextRequest("analytics", "sessions"))
}
