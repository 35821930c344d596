package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

// AuthService verifies operator credentials and issues bearer tokens.
type AuthService struct {
	repo   ports.OperatorRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	log    zerolog.Logger

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(repo ports.OperatorRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, codec: codec, log: log}
}

// Authenticate returns the operator owning email when password matches. An
// unknown email and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Operator, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	op, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Spend the same bcrypt time as a real comparison.
		s.hasher.Verify(password, s.dummyDigest())
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, op.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return op, nil
}

// Login authenticates and signs a token carrying {sub: email, role}.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	op, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			s.log.Info().Msg("login rejected")
		}
		return nil, err
	}

	token, exp, err := s.codec.Issue(op.Email, op.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("operator_id", op.ID).Str("role", string(op.Role)).Msg("login succeeded")

	return &ports.Session{Token: token, ExpiresAt: exp, Operator: op}, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("no-such-operator")
		if err == nil {
			s.dummy = digest
		}
	})
	return s.dummy
}
