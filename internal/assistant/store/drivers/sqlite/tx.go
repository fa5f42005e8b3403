package sqlite

import (
	"database/sql"

	"github.com/littledragon/assistant/internal/assistant/store"
)

type tx struct {
	tx *sql.Tx
}

var _ store.Tx = (*tx)(nil)

func (t *tx) Users() store.UserRepository {
	return &userRepo{db: t.tx}
}

func (t *tx) RevokedTokens() store.RevokedTokenRepository {
	return &revokedTokenRepo{db: t.tx}
}
