package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractTenantID_Header(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "mercy_west")
	c := e.NewContext(req, httptest.NewRecorder())

	if got := extractTenantID(c, "default"); got != "mercy_west" {
		t.Errorf("expected mercy_west, got %s", got)
	}
}

func TestExtractTenantID_JWTClaimWins(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "header_tenant")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("jwt_tenant_id", "claim_tenant")

	if got := extractTenantID(c, "default"); got != "claim_tenant" {
		t.Errorf("expected claim_tenant, got %s", got)
	}
}

func TestExtractTenantID_QueryParam(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?tenant_id=qp_tenant", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if got := extractTenantID(c, "default"); got != "qp_tenant" {
		t.Errorf("expected qp_tenant, got %s", got)
	}
}

func TestExtractTenantID_Default(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if got := extractTenantID(c, "default"); got != "default" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestTenantIDPattern(t *testing.T) {
	valid := []string{"default", "mercy_west", "Tenant01"}
	invalid := []string{"", "bad-tenant", "a b", "x;DROP TABLE ward"}

	for _, v := range valid {
		if !tenantIDPattern.MatchString(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if tenantIDPattern.MatchString(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestConnFromContext_Empty(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Error("expected nil conn from empty context")
	}
}

func TestConnFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBConnKey, "not-a-conn")
	if conn := ConnFromContext(ctx); conn != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "mercy_west")
	if got := TenantFromContext(ctx); got != "mercy_west" {
		t.Errorf("expected mercy_west, got %s", got)
	}
	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tenant, got %s", got)
	}
}

func TestTxFromContext_Nil(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestWithTx_NoConnection(t *testing.T) {
	_, _, err := WithTx(context.Background())
	if err == nil {
		t.Error("expected error when no connection in context")
	}
	if err.Error() != "no database connection in context" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestInTx_NoConnection(t *testing.T) {
	err := InTx(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("expected error when no connection in context")
	}
}
