package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// CreateProfileInput carries the fields for a new profile. Empty regulated
// fields are treated as absent.
type CreateProfileInput struct {
	Name       string
	Email      string
	Password   string
	Active     bool
	RFC        string
	CURP       string
	PostalCode string
	Phone      string
	Address    string
	Date       string
}

type ProfileService interface {
	Create(ctx context.Context, in CreateProfileInput) (*domain.Profile, error)
	Get(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Profile, error)
	Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error)
	Delete(ctx context.Context, id string) error
}
