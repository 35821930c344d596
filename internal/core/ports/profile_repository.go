package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// ProfileRepository persists profiles. Email, and rfc/curp when present, are
// unique.
type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*domain.Profile, error)
}
