package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const defaultProfileLimit = 10

// ProfileService manages end-user profiles.
type ProfileService struct {
	repo   ports.ProfileRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, hasher ports.PasswordHasher, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, hasher: hasher, log: log}
}

// Create validates the regulated fields that are set, then stores the profile.
func (s *ProfileService) Create(ctx context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	now := time.Now().UTC()
	p := &domain.Profile{
		Name:       in.Name,
		Email:      in.Email,
		Active:     in.Active,
		RFC:        in.RFC,
		CURP:       in.CURP,
		PostalCode: in.PostalCode,
		Phone:      in.Phone,
		Address:    in.Address,
		Date:       in.Date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	p.PasswordHash = digest

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("profile_id", created.ID).Msg("profile created")
	return created, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProfileService) List(ctx context.Context, offset, limit int) ([]*domain.Profile, error) {
	offset, limit = clampPage(offset, limit, defaultProfileLimit)
	return s.repo.List(ctx, offset, limit)
}

// Update re-validates only the regulated fields present in patch.
func (s *ProfileService) Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var digest string
	if patch.Password != nil {
		if digest, err = s.hasher.Hash(*patch.Password); err != nil {
			return nil, err
		}
	}

	patch.Apply(p, digest)
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("profile_id", id).Msg("profile updated")
	return updated, nil
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("profile_id", id).Msg("profile deleted")
	return nil
}
