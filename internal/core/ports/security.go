package ports

import (
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// PasswordHasher produces salted, slow digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenCodec signs and verifies bearer tokens. Every token gets the same
// configured TTL.
type TokenCodec interface {
	Issue(subject string, role domain.Role) (token string, expiresAt time.Time, err error)
	// Verify fails with domain.ErrInvalidCredentials on any defect.
	Verify(token string) (domain.Claims, error)
}
