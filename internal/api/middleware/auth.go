package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

const operatorKey = "operator"

// RequireTier admits the request only when the bearer token resolves to an
// operator whose stored role satisfies tier. The operator is injected into the
// context for handlers.
func RequireTier(gate ports.Gate, tier domain.Tier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.GateRejectionsTotal.WithLabelValues("header").Inc()
				return domain.ErrInvalidCredentials
			}

			op, err := gate.Require(c.Request().Context(), token, tier)
			if err != nil {
				return err
			}

			c.Set(operatorKey, op)
			return next(c)
		}
	}
}

// CurrentOperator returns the operator injected by RequireTier.
func CurrentOperator(c echo.Context) (*domain.Operator, bool) {
	op, ok := c.Get(operatorKey).(*domain.Operator)
	return op, ok && op != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
