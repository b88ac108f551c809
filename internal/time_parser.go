// internal/time_parser.go
// ------------------------
// This internal package provides helper functions for parsing the time values the analytics
// services put in rate limit headers.
//
// Functions:
// - ParseTimeStr: Convert strings like "1s", "6m0s" into milliseconds.
// - ParseRetryAfter: Convert a Retry-After value (seconds, duration or HTTP date) into an absolute ms timestamp.
// - ParseReset: Convert an X-RateLimit-Reset value (UNIX seconds) into ms.
// - UnixToMs: Convert a UNIX timestamp in seconds to milliseconds.
package internal

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseTimeStr converts strings like "1s", "6m0s" into ms.
func ParseTimeStr(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "s") && !strings.Contains(s, "m") {
		val := strings.TrimSuffix(s, "s")
		sec, err := strconv.Atoi(val)
		if err == nil {
			return int64(sec) * 1000
		}
	}

	var minutes, seconds int
	n, err := fmt.Sscanf(s, "%dm%ds", &minutes, &seconds)
	if n == 2 && err == nil {
		return int64(minutes)*60_000 + int64(seconds)*1_000
	}

	return 0
}

// ParseRetryAfter returns the absolute time (ms) a Retry-After value points at,
// relative to now. It returns false when the value cannot be parsed.
func ParseRetryAfter(s string, now time.Time) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return now.UnixMilli() + sec*1000, true
	}

	if ms := ParseTimeStr(s); ms > 0 {
		return now.UnixMilli() + ms, true
	}

	if t, err := http.ParseTime(s); err == nil {
		return t.UnixMilli(), true
	}

	return 0, false
}

// ParseReset converts an X-RateLimit-Reset header holding UNIX seconds into ms.
func ParseReset(s string) (int64, bool) {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return UnixToMs(ts), true
}

// UnixToMs converts a UNIX timestamp in seconds to milliseconds.
func UnixToMs(timestamp int64) int64 {
	return timestamp * 1000
}
