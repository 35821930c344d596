package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// OperatorRepository persists operators. Email is unique; Create and Update
// report a violation as *domain.DuplicateKeyError. Missing ids yield
// domain.ErrNotFound.
type OperatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Operator, error)
	FindByID(ctx context.Context, id string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
	Update(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
	Delete(ctx context.Context, id string) error
	// List returns operators in creation order.
	List(ctx context.Context, offset, limit int) ([]*domain.Operator, error)
}

// OperatorCache is a best-effort lookup of resolved operators by email.
// Implementations must never return password hashes.
type OperatorCache interface {
	Get(ctx context.Context, email string) (*domain.Operator, bool)
	Set(ctx context.Context, op *domain.Operator)
	Invalidate(ctx context.Context, emails ...string)
}
