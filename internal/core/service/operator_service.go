package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

const (
	defaultOperatorLimit = 100
	maxListLimit         = 100
)

// BootstrapOperator is the operator seeded at startup when absent.
type BootstrapOperator struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// OperatorService manages operator records.
type OperatorService struct {
	repo   ports.OperatorRepository
	hasher ports.PasswordHasher
	cache  ports.OperatorCache
	log    zerolog.Logger
}

// NewOperatorService builds the service. cache may be nil.
func NewOperatorService(repo ports.OperatorRepository, hasher ports.PasswordHasher, cache ports.OperatorCache, log zerolog.Logger) *OperatorService {
	return &OperatorService{repo: repo, hasher: hasher, cache: cache, log: log}
}

func (s *OperatorService) Register(ctx context.Context, in ports.RegisterOperatorInput) (*domain.Operator, error) {
	if !in.Role.Valid() {
		return nil, &domain.FormatError{Field: "role"}
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Operator{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         in.Role,
		Active:       in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("operator_id", created.ID).Str("role", string(created.Role)).Msg("operator registered")
	return created, nil
}

func (s *OperatorService) Get(ctx context.Context, id string) (*domain.Operator, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OperatorService) List(ctx context.Context, offset, limit int) ([]*domain.Operator, error) {
	offset, limit = clampPage(offset, limit, defaultOperatorLimit)
	return s.repo.List(ctx, offset, limit)
}

// Update merges patch onto the stored operator. A new email that belongs to
// another operator fails with *domain.DuplicateKeyError.
func (s *OperatorService) Update(ctx context.Context, id string, patch domain.OperatorPatch) (*domain.Operator, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	op, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var digest string
	if patch.Password != nil {
		if digest, err = s.hasher.Hash(*patch.Password); err != nil {
			return nil, err
		}
	}

	previousEmail := op.Email
	patch.Apply(op, digest)
	op.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, op)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, previousEmail, updated.Email)

	s.log.Info().Str("operator_id", id).Msg("operator updated")
	return updated, nil
}

func (s *OperatorService) Delete(ctx context.Context, id string) error {
	op, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, op.Email)

	s.log.Info().Str("operator_id", id).Msg("operator deleted")
	return nil
}

// EnsureBootstrap seeds b unless an operator with its email already exists.
// An empty email disables seeding.
func (s *OperatorService) EnsureBootstrap(ctx context.Context, b BootstrapOperator) error {
	if b.Email == "" {
		s.log.Info().Msg("no bootstrap operator configured")
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, b.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	_, err = s.Register(ctx, ports.RegisterOperatorInput{
		Name:     b.Name,
		Email:    b.Email,
		Password: b.Password,
		Role:     b.Role,
		Active:   true,
	})
	if errors.Is(err, domain.ErrDuplicateKey) {
		return nil
	}
	if err != nil {
		return err
	}

	metrics.OperatorsProvisionedTotal.WithLabelValues("bootstrap").Inc()
	s.log.Info().Str("email", b.Email).Msg("bootstrap operator created")
	return nil
}

func (s *OperatorService) invalidate(ctx context.Context, emails ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, emails...)
	}
}

// clampPage normalises list bounds: negative offsets become 0 and limits
// fall back to def, capped at maxListLimit.
func clampPage(offset, limit, def int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return offset, limit
}
