package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

func newRBACContext(e *echo.Echo) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	c := newRBACContext(e)
	c.Set(PrincipalKey, domain.Principal{ID: "u1", Role: domain.RoleAdmin})

	called := false
	mw := RBAC(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	c := newRBACContext(e)
	c.Set(PrincipalKey, domain.Principal{ID: "u1", Role: domain.RoleEmployee})

	mw := RBAC(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_FailsClosedWithoutPrincipal(t *testing.T) {
	e := echo.New()
	c := newRBACContext(e)

	mw := RBAC(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestSelfOrAdmin(t *testing.T) {
	cases := []struct {
		name      string
		principal *domain.Principal
		paramID   string
		wantErr   error
	}{
		{"admin on any record", &domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "other", nil},
		{"owner on own record", &domain.Principal{ID: "u1", Role: domain.RoleEmployee}, "u1", nil},
		{"employee on another record", &domain.Principal{ID: "u1", Role: domain.RoleEmployee}, "u2", domain.ErrForbidden},
		{"no principal", nil, "u1", domain.ErrNoToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := newRBACContext(e)
			c.SetParamNames("id")
			c.SetParamValues(tc.paramID)
			if tc.principal != nil {
				c.Set(PrincipalKey, *tc.principal)
			}

			reached := false
			handler := SelfOrAdmin()(func(c echo.Context) error {
				reached = true
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reached {
					t.Fatalf("next handler not called")
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if reached {
				t.Fatalf("denied request reached the handler")
			}
		})
	}
}
