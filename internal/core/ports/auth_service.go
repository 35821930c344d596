package ports

import (
	"context"
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Operator  *domain.Operator
}

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Operator, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// Gate guards protected operations: verify the token, resolve the caller and
// check the tier.
type Gate interface {
	Require(ctx context.Context, token string, tier domain.Tier) (*domain.Operator, error)
}
