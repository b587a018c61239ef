package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baticonnect/portal/internal/api/middleware"
	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/service"
	"github.com/baticonnect/portal/internal/infrastructure/db/memory"
	"github.com/baticonnect/portal/internal/infrastructure/sealer"
)

func errorContext(t *testing.T, loggedIn bool) (echo.Context, *httptest.ResponseRecorder, *service.SessionStore) {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	s, err := sealer.New("test-secret")
	require.NoError(t, err)

	store, err := service.OpenSessionStore(context.Background(), memory.NewSessionStorage(), s, "sid", zerolog.Nop())
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, store.Save(context.Background(), "tok", domain.Session{Username: "Moussa", Role: domain.RoleProvider, UserID: 7}))
	}

	e := echo.New()
	e.Renderer = renderer
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.StoreKey, store)
	return c, rec, store
}

func TestHTTPErrorHandler_UnauthorizedBackendLogsOut(t *testing.T) {
	c, rec, store := errorContext(t, true)

	err := fmt.Errorf("load profile: %w", &domain.APIError{Kind: domain.KindUnauthorized, Status: 401})
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.False(t, store.Session().IsLoggedIn)
	assert.Empty(t, store.Token())
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "This page does not exist."},
		{"echo bad request", echo.NewHTTPError(http.StatusBadRequest, "invalid form"), http.StatusBadRequest, "invalid form"},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden, ""},
		{"backend forbidden", &domain.APIError{Kind: domain.KindForbidden, Status: 403}, http.StatusForbidden, ""},
		{"backend down", &domain.APIError{Kind: domain.KindUnreachable}, http.StatusBadGateway, ""},
		{"backend validation", &domain.APIError{Kind: domain.KindValidation, Status: 422, Detail: "bad city"}, http.StatusUnprocessableEntity, "bad city"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, _ := errorContext(t, true)
			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			assert.NotContains(t, rec.Body.String(), "boom")
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
			assert.Contains(t, rec.Body.String(), "Welcome, <strong>Moussa</strong>")
		})
	}
}
