package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/service"
	"github.com/baticonnect/portal/internal/infrastructure/db/memory"
)

func contextWithSession(t *testing.T, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	storage := memory.NewSessionStorage()
	cfg := newSessionConfig(t, storage)

	store, err := service.OpenSessionStore(context.Background(), storage, cfg.Sealer, "sid-1", zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if sess != nil {
		if err := store.Save(context.Background(), backendToken(t, time.Now().Add(time.Hour)), *sess); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(StoreKey, store)
	return c, rec
}

func TestRequireLogin_Allows(t *testing.T) {
	c, rec := contextWithSession(t, &domain.Session{Username: "awa", Role: domain.RoleClient, UserID: 3})

	called := false
	handler := RequireLogin()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	c, rec := contextWithSession(t, nil)

	handler := RequireLogin()(func(c echo.Context) error {
		t.Fatalf("next handler should not be called")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRequireAdmin_RedirectsNonAdmin(t *testing.T) {
	c, rec := contextWithSession(t, &domain.Session{Username: "awa", Role: domain.RoleClient, UserID: 3})

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("next handler should not be called")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	c, rec := contextWithSession(t, &domain.Session{Username: "root", Role: domain.RoleClient, UserID: 1, IsAdmin: true})

	handler := RequireAdmin()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
