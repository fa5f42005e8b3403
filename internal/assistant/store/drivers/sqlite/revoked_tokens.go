package sqlite

import (
	"context"
	"time"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/pkg/idx"
)

type revokedTokenRepo struct {
	db dbtx
}

func (r *revokedTokenRepo) CreateRevokedToken(ctx context.Context, token domain.RevokedToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (id, token, blacklisted_on, expires_at, is_revoked)
		VALUES (?, ?, ?, ?, ?)`,
		token.ID.String(),
		token.Token,
		token.BlacklistedOn.UTC().Format(time.RFC3339Nano),
		token.ExpiresAt.UTC().Format(time.RFC3339Nano),
		token.IsRevoked,
	)
	return mapErr(err)
}

func (r *revokedTokenRepo) GetRevokedToken(ctx context.Context, token string) (domain.RevokedToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token, blacklisted_on, expires_at, is_revoked
		FROM revoked_tokens WHERE token = ?`, token)

	var (
		rt                       domain.RevokedToken
		id                       string
		blacklistedOn, expiresAt string
	)
	err := row.Scan(&id, &rt.Token, &blacklistedOn, &expiresAt, &rt.IsRevoked)
	if err != nil {
		return domain.RevokedToken{}, mapErr(err)
	}

	rt.ID, err = idx.Parse(id)
	if err != nil {
		return domain.RevokedToken{}, err
	}
	if rt.BlacklistedOn, err = time.Parse(time.RFC3339Nano, blacklistedOn); err != nil {
		return domain.RevokedToken{}, err
	}
	if rt.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt); err != nil {
		return domain.RevokedToken{}, err
	}
	return rt, nil
}

func (r *revokedTokenRepo) DeleteExpiredRevokedTokens(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM revoked_tokens WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func (r *revokedTokenRepo) CountRevokedTokens(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens`).Scan(&n)
	return n, mapErr(err)
}
