package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenSource(t *testing.T) {
	secret := []byte("s3cret")
	ts, err := NewServiceTokenSource(ServiceTokenConfig{
		Secret:   secret,
		Subject:  "pulse-bridge",
		Audience: "analytics",
		TTL:      5 * time.Minute,
	})
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Valid())

	claims, err := ParseServiceToken(tok.AccessToken, secret)
	require.NoError(t, err)
	assert.Equal(t, "pulse-bridge", claims.Subject)
	assert.True(t, claims.VerifyAudience("analytics", true))
	assert.NotEmpty(t, claims.ID)

	again, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, again.AccessToken, "valid tokens are reused")
}

func TestParseServiceTokenWrongSecret(t *testing.T) {
	ts, err := NewServiceTokenSource(ServiceTokenConfig{Secret: []byte("a"), Subject: "x", TTL: time.Minute})
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)

	_, err = ParseServiceToken(tok.AccessToken, []byte("b"))
	assert.Error(t, err)
}

func TestNewServiceTokenSourceValidation(t *testing.T) {
	_, err := NewServiceTokenSource(ServiceTokenConfig{TTL: time.Minute})
	assert.Error(t, err)

	_, err = NewServiceTokenSource(ServiceTokenConfig{Secret: []byte("a")})
	assert.Error(t, err)
}

func TestServiceTokenExpiry(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &serviceTokenSource{
		config: ServiceTokenConfig{Secret: []byte("k"), Subject: "s", TTL: time.Minute},
		now:    func() time.Time { return fixed },
	}

	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Minute), tok.Expiry)
}
