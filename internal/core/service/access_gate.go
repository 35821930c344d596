package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

// ProvisionedName is the placeholder name of auto-provisioned operators.
const ProvisionedName = "Admin"

// GateOptions controls auto-provisioning.
type GateOptions struct {
	// AutoProvision creates an admin operator for a valid admin-role token
	// whose subject is not stored yet.
	AutoProvision bool
	// FallbackPassword is hashed into auto-provisioned records. When empty a
	// random secret is used, leaving the account without a usable password.
	FallbackPassword string
}

// AccessGate runs once per protected request:
//
//	Unauthenticated ─verify token─▶ TokenVerified ─resolve operator─▶ IdentityResolved ─role policy─▶ Allowed | Denied
//
// A failed verification or an unresolvable subject ends in
// domain.ErrInvalidCredentials; an insufficient role ends in domain.ErrForbidden.
type AccessGate struct {
	codec  ports.TokenCodec
	repo   ports.OperatorRepository
	hasher ports.PasswordHasher
	cache  ports.OperatorCache
	opts   GateOptions
	log    zerolog.Logger

	provisioning singleflight.Group
}

// NewAccessGate builds a gate. cache may be nil.
func NewAccessGate(
	codec ports.TokenCodec,
	repo ports.OperatorRepository,
	hasher ports.PasswordHasher,
	cache ports.OperatorCache,
	opts GateOptions,
	log zerolog.Logger,
) *AccessGate {
	return &AccessGate{codec: codec, repo: repo, hasher: hasher, cache: cache, opts: opts, log: log}
}

// Require returns the caller's operator when token is valid and its role
// satisfies tier.
func (g *AccessGate) Require(ctx context.Context, token string, tier domain.Tier) (*domain.Operator, error) {
	claims, err := g.codec.Verify(token)
	if err != nil {
		g.reject(tier, "token", err)
		return nil, domain.ErrInvalidCredentials
	}

	op, err := g.resolve(ctx, claims)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			g.reject(tier, "identity", err)
		}
		return nil, err
	}

	if !op.Role.Satisfies(tier) {
		metrics.GateDecisionsTotal.WithLabelValues(string(tier), "denied").Inc()
		g.log.Info().Str("operator_id", op.ID).Str("role", string(op.Role)).Str("tier", string(tier)).Msg("access denied")
		return nil, domain.ErrForbidden
	}

	metrics.GateDecisionsTotal.WithLabelValues(string(tier), "allowed").Inc()
	return op, nil
}

func (g *AccessGate) resolve(ctx context.Context, claims domain.Claims) (*domain.Operator, error) {
	if g.cache != nil {
		if op, ok := g.cache.Get(ctx, claims.Subject); ok {
			metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
			return op, nil
		}
		metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
	}

	op, err := g.repo.FindByEmail(ctx, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		if claims.Role != domain.RoleAdmin || !g.opts.AutoProvision {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrInvalidCredentials)
		}
		if op, err = g.provision(ctx, claims.Subject); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resolve operator: %w", err)
	}

	if g.cache != nil {
		g.cache.Set(ctx, op)
	}
	return op, nil
}

// provision inserts an admin operator for email. Concurrent calls in this
// process share one insert; an insert lost to another process surfaces as a
// duplicate key and is answered by re-reading the winner's record.
//
// The shared insert outlives the caller that started it, so one client
// disconnecting does not fail every request waiting on the same flight.
func (g *AccessGate) provision(ctx context.Context, email string) (*domain.Operator, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, _ := g.provisioning.Do(email, func() (interface{}, error) {
		password := g.opts.FallbackPassword
		if password == "" {
			var err error
			if password, err = randomSecret(); err != nil {
				return nil, err
			}
		}
		digest, err := g.hasher.Hash(password)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		created, err := g.repo.Create(ctx, &domain.Operator{
			Name:         ProvisionedName,
			Email:        email,
			PasswordHash: digest,
			Role:         domain.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrDuplicateKey) {
			g.log.Debug().Str("email", email).Msg("operator provisioned concurrently, re-reading")
			return g.repo.FindByEmail(ctx, email)
		}
		if err != nil {
			return nil, fmt.Errorf("provision operator: %w", err)
		}

		metrics.OperatorsProvisionedTotal.WithLabelValues("token").Inc()
		g.log.Warn().Str("operator_id", created.ID).Str("email", email).Msg("operator auto-provisioned from token")
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Operator), nil
}

func (g *AccessGate) reject(tier domain.Tier, stage string, cause error) {
	metrics.GateDecisionsTotal.WithLabelValues(string(tier), "rejected").Inc()
	metrics.GateRejectionsTotal.WithLabelValues(stage).Inc()
	g.log.Debug().Err(cause).Str("stage", stage).Msg("request rejected")
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
