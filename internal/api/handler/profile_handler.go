package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/ports"
)

// ProfileHandler handles HTTP requests for profile management.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Create handles POST /users.
//
// @Summary      Create a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProfileRequest  true  "Profile details"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /users [post]
func (h *ProfileHandler) Create(c echo.Context) error {
	var req createProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), toCreateProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

// List handles GET /users.
//
// @Summary      List profiles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"  default(0)
// @Param        limit  query     int  false  "Page size (max 100)"  default(10)
// @Success      200    {array}   profileResponse
// @Router       /users [get]
func (h *ProfileHandler) List(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	profiles, err := h.service.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponses(profiles))
}

// Get handles GET /users/:id.
//
// @Summary      Get a profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// Update handles PUT /users/:id.
//
// @Summary      Update a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Profile id"
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), toProfilePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile id"
// @Success      200  {object}  detailResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "profile deleted"})
}
