// Package domain holds the core types shared by the service, store and HTTP
// layers.
package domain

import (
	"time"

	"github.com/littledragon/assistant/pkg/idx"
)

// User is a registered account. PasswordHash is the PHC-encoded Argon2id
// digest and never leaves the service layer.
type User struct {
	ID           idx.ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
