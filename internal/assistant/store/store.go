// Package store defines the persistence contracts for users and revoked
// tokens. Drivers live under drivers/ and are selected at startup.
package store

import (
	"context"
	"errors"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root persistence interface.
type Store interface {
	Users() UserRepository
	RevokedTokens() RevokedTokenRepository

	// WithTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	ApplyMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	RevokedTokens() RevokedTokenRepository
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// RevokedTokenRepository persists the token blacklist. Lookups key on the
// literal token string as presented by clients.
type RevokedTokenRepository interface {
	CreateRevokedToken(ctx context.Context, token domain.RevokedToken) error
	GetRevokedToken(ctx context.Context, token string) (domain.RevokedToken, error)
	DeleteExpiredRevokedTokens(ctx context.Context) (int64, error)
	CountRevokedTokens(ctx context.Context) (int64, error)
}
