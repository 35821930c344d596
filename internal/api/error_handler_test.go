package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"format", &domain.FormatError{Field: "curp"}, http.StatusBadRequest, "invalid_format"},
		{"duplicate", &domain.DuplicateKeyError{Field: "email"}, http.StatusConflict, "duplicate_key"},
		{"not found wrapped", fmt.Errorf("find: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"echo", echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required"), http.StatusUnprocessableEntity, "unprocessable_entity"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			got := decodeError(t, rec)
			if got.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, got.Code)
			}
			if tt.status == http.StatusInternalServerError && got.Error != "internal server error" {
				t.Fatalf("internal detail leaked: %q", got.Error)
			}
			if tt.status == http.StatusUnauthorized && rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
				t.Fatalf("missing WWW-Authenticate header")
			}
		})
	}
}

func TestHTTPErrorHandler_FormatMessageNamesField(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&domain.FormatError{Field: "curp"}, c)

	if got := decodeError(t, rec); got.Error != "curp is not in the official format" {
		t.Fatalf("unexpected message %q", got.Error)
	}
}
