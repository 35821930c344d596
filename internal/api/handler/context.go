package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/domain"
)

// ctxOperator returns the caller resolved by the RequireTier middleware.
// Absence means the route was mounted without a guard; treat it as
// unauthenticated.
func ctxOperator(c echo.Context) (*domain.Operator, error) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return op, nil
}

// pageParams reads the skip/limit query parameters. Missing values are
// zero and left for the service to default.
func pageParams(c echo.Context) (skip, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "skip and limit must be integers")
	}
	return skip, limit, nil
}

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
