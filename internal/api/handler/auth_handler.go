package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges operator credentials for a bearer token. The username
// field carries the operator's email.
//
// @Summary      Login
// @Tags         admins
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Operator email"
// @Param        password  formData  string  true  "Operator password"
// @Success      200       {object}  tokenResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      422       {object}  ErrorResponse
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt.UTC(),
	})
}

// Me returns the authenticated operator.
//
// @Summary      Current operator
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  operatorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	op, err := ctxOperator(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOperatorResponse(op))
}
