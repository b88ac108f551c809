package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeStr(t *testing.T) {
	assert.Equal(t, int64(1000), ParseTimeStr("1s"))
	assert.Equal(t, int64(360000), ParseTimeStr("6m0s"))
	assert.Equal(t, int64(61000), ParseTimeStr(" 1m1s "))
	assert.Equal(t, int64(0), ParseTimeStr(""))
	assert.Equal(t, int64(0), ParseTimeStr("soon"))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	at, ok := ParseRetryAfter("30", now)
	assert.True(t, ok)
	assert.Equal(t, now.UnixMilli()+30_000, at)

	at, ok = ParseRetryAfter("2m0s", now)
	assert.True(t, ok)
	assert.Equal(t, now.UnixMilli()+120_000, at)

	at, ok = ParseRetryAfter("Wed, 01 May 2024 12:01:00 GMT", now)
	assert.True(t, ok)
	assert.Equal(t, now.Add(time.Minute).UnixMilli(), at)

	_, ok = ParseRetryAfter("later", now)
	assert.False(t, ok)
}

func TestParseReset(t *testing.T) {
	ms, ok := ParseReset("1714564800")
	assert.True(t, ok)
	assert.Equal(t, int64(1714564800000), ms)

	_, ok = ParseReset("tomorrow")
	assert.False(t, ok)
}
