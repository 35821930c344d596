package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// RegisterOperatorInput carries the fields for an explicit registration.
type RegisterOperatorInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Active   bool
}

type OperatorService interface {
	Register(ctx context.Context, in RegisterOperatorInput) (*domain.Operator, error)
	Get(ctx context.Context, id string) (*domain.Operator, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Operator, error)
	Update(ctx context.Context, id string, patch domain.OperatorPatch) (*domain.Operator, error)
	Delete(ctx context.Context, id string) error
}
