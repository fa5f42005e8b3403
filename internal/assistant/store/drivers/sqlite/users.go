package sqlite

import (
	"context"
	"time"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/pkg/idx"
)

type userRepo struct {
	db dbtx
}

func (r *userRepo) CreateUser(ctx context.Context, user domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
		user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return mapErr(err)
}

func (r *userRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id.String()))
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, email))
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE username = ?`, username))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *userRepo) scanUser(row rowScanner) (domain.User, error) {
	var (
		user                 domain.User
		id                   string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}

	user.ID, err = idx.Parse(id)
	if err != nil {
		return domain.User{}, err
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.User{}, err
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
