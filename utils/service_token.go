// utils/service_token.go
package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ServiceTokenConfig holds what is needed to mint bearer tokens for the analytics services.
type ServiceTokenConfig struct {
	Secret   []byte        // HMAC key shared with the analytics services
	Subject  string        // e.g. "pulse-bridge"
	Audience string        // Optional "aud" claim
	TTL      time.Duration // Lifetime of each minted token
}

// serviceTokenSource mints a fresh HS256 token on every call.
type serviceTokenSource struct {
	config ServiceTokenConfig
	now    func() time.Time
}

// NewServiceTokenSource returns a token source minting short-lived HS256 JWTs.
// Tokens are reused until shortly before they expire.
func NewServiceTokenSource(cfg ServiceTokenConfig) (oauth2.TokenSource, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("service token secret is empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("service token ttl must be positive, got %s", cfg.TTL)
	}
	return oauth2.ReuseTokenSource(nil, &serviceTokenSource{config: cfg, now: time.Now}), nil
}

func (s *serviceTokenSource) Token() (*oauth2.Token, error) {
	now := s.now()
	expiry := now.Add(s.config.TTL)

	claims := jwt.RegisteredClaims{
		Subject:   s.config.Subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign service token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// ParseServiceToken verifies a token minted by NewServiceTokenSource and returns its claims.
func ParseServiceToken(token string, secret []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
