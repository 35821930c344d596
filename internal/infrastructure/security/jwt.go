package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/user-admin/internal/core/domain"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// tokenClaims is the wire form: {"sub": email, "role": role, "exp": unix}.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with a single shared HMAC secret.
type JWTCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a JWTCodec.
type Option func(*JWTCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec validates the algorithm (HS256, HS384 or HS512) and returns a codec.
func NewJWTCodec(secret, algorithm string, ttl time.Duration, opts ...Option) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty secret")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt: ttl must be positive")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt: %w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	c := &JWTCodec{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL is the lifetime stamped on every issued token.
func (c *JWTCodec) TTL() time.Duration { return c.ttl }

func (c *JWTCodec) Issue(subject string, role domain.Role) (string, time.Time, error) {
	exp := jwt.NewNumericDate(c.now().Add(c.ttl))
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: exp,
		},
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp.Time, nil
}

func (c *JWTCodec) Verify(token string) (domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" || claims.Role == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing subject or role claim", domain.ErrInvalidCredentials)
	}
	return domain.Claims{
		Subject:   claims.Subject,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
