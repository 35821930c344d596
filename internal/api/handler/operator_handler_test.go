package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

type stubOperatorService struct {
	registerFn func(ctx context.Context, in ports.RegisterOperatorInput) (*domain.Operator, error)
	updateFn   func(ctx context.Context, id string, patch domain.OperatorPatch) (*domain.Operator, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubOperatorService) Register(ctx context.Context, in ports.RegisterOperatorInput) (*domain.Operator, error) {
	return s.registerFn(ctx, in)
}

func (s *stubOperatorService) Get(ctx context.Context, id string) (*domain.Operator, error) {
	return nil, domain.ErrNotFound
}

func (s *stubOperatorService) List(ctx context.Context, offset, limit int) ([]*domain.Operator, error) {
	return nil, nil
}

func (s *stubOperatorService) Update(ctx context.Context, id string, patch domain.OperatorPatch) (*domain.Operator, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubOperatorService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestOperatorHandler_Register_Success(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{
		registerFn: func(ctx context.Context, in ports.RegisterOperatorInput) (*domain.Operator, error) {
			if in.Role != domain.RoleReadWrite || !in.Active {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Operator{ID: "1", Email: in.Email, Role: in.Role, Active: in.Active}, nil
		},
	})

	rec := httptest.NewRecorder()
	body := `{"name":"Bo","email":"bo@example.com","password":"pw","role":"read_write"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/admin/register", body), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestOperatorHandler_Register_UnknownRole(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{})

	body := `{"name":"Bo","email":"bo@example.com","password":"pw","role":"superuser"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/admin/register", body), httptest.NewRecorder())

	err := handler.Register(c)
	var fe *domain.FormatError
	if !errors.As(err, &fe) || fe.Field != "role" {
		t.Fatalf("expected role format error, got %v", err)
	}
}

func TestOperatorHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{
		registerFn: func(context.Context, ports.RegisterOperatorInput) (*domain.Operator, error) {
			return nil, &domain.DuplicateKeyError{Field: "email"}
		},
	})

	body := `{"name":"Bo","email":"bo@example.com","password":"pw","role":"read"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/admin/register", body), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestOperatorHandler_Update_ForwardsPatch(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{
		updateFn: func(ctx context.Context, id string, patch domain.OperatorPatch) (*domain.Operator, error) {
			if patch.Role == nil || *patch.Role != domain.RoleAdmin {
				t.Fatalf("role not forwarded: %+v", patch)
			}
			if patch.Name != nil || patch.Email != nil || patch.Password != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.Operator{ID: id, Role: *patch.Role}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/admin/3", `{"role":"admin"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOperatorHandler_Update_InvalidEmail(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{})

	c := e.NewContext(jsonRequest(http.MethodPut, "/admin/3", `{"email":"not-an-email"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")

	err := handler.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestOperatorHandler_Delete(t *testing.T) {
	e := newEcho()
	handler := NewOperatorHandler(&stubOperatorService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrNotFound
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/admin/1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/admin/missing", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHealthDependencies_Readiness(t *testing.T) {
	e := newEcho()
	handler := NewHealthDependenciesHandler(map[string]Pinger{
		"store": PingFunc(func(context.Context) error { return nil }),
		"cache": PingFunc(func(context.Context) error { return errors.New("down") }),
		"none":  nil,
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := handler.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
