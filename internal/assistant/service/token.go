package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/internal/assistant/store"
	"github.com/littledragon/assistant/pkg/idx"
	"github.com/littledragon/assistant/pkg/jwtx"
	"github.com/littledragon/assistant/pkg/slogx"
)

// TokenService issues, validates and revokes access tokens. Validation
// checks signature, expiry and the revocation blacklist in that order.
type TokenService struct {
	Signer    *jwtx.HS256
	Store     store.Store
	Issuer    string
	AccessTTL time.Duration
}

// Issue mints an access token for a subject.
func (s *TokenService) Issue(ctx context.Context, subject string) (domain.AccessToken, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(subject, s.Issuer, ttl, now)
	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.AccessToken{}, err
	}

	return domain.AccessToken{
		Token:     signed,
		TokenType: "bearer",
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate checks a presented token and returns its subject. Revocation is
// checked against the literal token string, after the cheaper signature and
// expiry checks.
func (s *TokenService) Validate(ctx context.Context, token string) (string, error) {
	claims, err := s.Signer.Verify(token)
	switch {
	case err == nil:
	case errors.Is(err, jwtx.ErrExpired):
		return "", ErrExpiredToken
	default:
		return "", ErrInvalidToken
	}

	_, err = s.Store.RevokedTokens().GetRevokedToken(ctx, token)
	switch {
	case err == nil:
		return "", ErrRevokedToken
	case errors.Is(err, store.ErrNotFound):
		return claims.Subject, nil
	default:
		return "", err
	}
}

// Revoke blacklists the literal token string. Revoking is idempotent and
// deliberately silent about token validity: an undecodable token or one
// already on the blacklist both return nil, so logout never leaks state.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Signer.Decode(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("revoke skipped, token undecodable")
		return nil
	}

	expiresAt := time.Now().UTC()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	err = s.Store.RevokedTokens().CreateRevokedToken(ctx, domain.RevokedToken{
		ID:            idx.New(),
		Token:         token,
		BlacklistedOn: time.Now().UTC(),
		ExpiresAt:     expiresAt,
		IsRevoked:     true,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("token revoked", slog.String("subject", claims.Subject))
	return nil
}
