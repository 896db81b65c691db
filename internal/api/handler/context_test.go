package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
)

func TestCtxActor_CapturesRequestMetadata(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cases", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (portal test)")
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("user_id", int64(2))
	c.Set("role", string(domain.RoleAdmin))
	c.Set("full_name", "Admin")

	actor, err := ctxActor(c)
	if err != nil {
		t.Fatalf("ctxActor returned error: %v", err)
	}
	if actor.UserID != 2 || actor.Role != domain.RoleAdmin || actor.FullName != "Admin" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if actor.IPAddress == "" {
		t.Fatal("actor should carry the client address")
	}
	if actor.UserAgent != "Mozilla/5.0 (portal test)" {
		t.Fatalf("actor user agent = %q", actor.UserAgent)
	}
}

func TestCtxActor_RejectsMissingClaims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cases", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if _, err := ctxActor(c); err == nil {
		t.Fatal("expected error without auth claims")
	}

	c.Set("user_id", int64(5))
	c.Set("role", "superuser")
	if _, err := ctxActor(c); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
