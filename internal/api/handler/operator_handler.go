package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/ports"
)

// OperatorHandler handles HTTP requests for operator management.
type OperatorHandler struct {
	service ports.OperatorService
}

func NewOperatorHandler(service ports.OperatorService) *OperatorHandler {
	return &OperatorHandler{service: service}
}

// Register handles POST /admin/register.
//
// @Summary      Register an operator
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerOperatorRequest  true  "Operator details"
// @Success      201   {object}  operatorResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /admin/register [post]
func (h *OperatorHandler) Register(c echo.Context) error {
	var req registerOperatorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	op, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOperatorResponse(op))
}

// List handles GET /admin.
//
// @Summary      List operators
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"  default(0)
// @Param        limit  query     int  false  "Page size (max 100)"  default(100)
// @Success      200    {array}   operatorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Router       /admin [get]
func (h *OperatorHandler) List(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	ops, err := h.service.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOperatorResponses(ops))
}

// Get handles GET /admin/:id.
//
// @Summary      Get an operator
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Operator id"
// @Success      200  {object}  operatorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id} [get]
func (h *OperatorHandler) Get(c echo.Context) error {
	op, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOperatorResponse(op))
}

// Update handles PUT /admin/:id. Only the fields present in the body change.
//
// @Summary      Update an operator
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Operator id"
// @Param        body  body      updateOperatorRequest  true  "Fields to change"
// @Success      200   {object}  operatorResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /admin/{id} [put]
func (h *OperatorHandler) Update(c echo.Context) error {
	var req updateOperatorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	op, err := h.service.Update(c.Request().Context(), c.Param("id"), toOperatorPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOperatorResponse(op))
}

// Delete handles DELETE /admin/:id.
//
// @Summary      Delete an operator
// @Tags         admins
// @Security     BearerAuth
// @Param        id   path  string  true  "Operator id"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/{id} [delete]
func (h *OperatorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
