package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithRoles(c echo.Context, roles ...string) echo.Context {
	ctx := context.WithValue(c.Request().Context(), UserRolesKey, roles)
	c.SetRequest(c.Request().WithContext(ctx))
	return c
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		has      []string
		allowed  bool
	}{
		{"exact match", []string{RoleMidwife}, []string{RoleMidwife}, true},
		{"one of several", []string{RoleMidwife, RoleObstetrician}, []string{RoleObstetrician}, true},
		{"admin passes everything", []string{RoleServiceChief}, []string{RoleAdmin}, true},
		{"no match", []string{RolePediatrician}, []string{RoleAdminStaff}, false},
		{"no roles", []string{RoleMidwife}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := ctxWithRoles(e.NewContext(req, rec), tt.has...)

			err := RequireRole(tt.required...)(okHandler)(c)
			if tt.allowed && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tt.allowed {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}

func TestRequireClinical(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	c := ctxWithRoles(e.NewContext(req, rec), RoleNeonatalNurse)
	if err := RequireClinical()(okHandler)(c); err != nil {
		t.Errorf("expected clinical role to pass, got %v", err)
	}

	c = ctxWithRoles(e.NewContext(req, rec), RoleAdminStaff)
	err := RequireClinical()(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 for administrative staff, got %v", err)
	}
}
