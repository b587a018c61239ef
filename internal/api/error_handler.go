package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/api/middleware"
	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
)

// errorPage is the view-model of the error template.
type errorPage struct {
	render.Layout
	Status  int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Sends sessions the backend no longer accepts to the login page.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the HTML error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if domain.IsKind(err, domain.KindUnauthorized) {
			if store := middleware.Store(c); store != nil {
				if cerr := store.Clear(c.Request().Context()); cerr != nil {
					log.Warn().Err(cerr).Msg("failed to clear rejected session")
				}
			}
			_ = c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		code, msg := resolveError(err, log, c)
		page := errorPage{Layout: render.Layout{Title: http.StatusText(code)}, Status: code, Message: msg}
		if store := middleware.Store(c); store != nil {
			page.Session = store.Session()
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if rerr := c.Render(code, render.PageError, page); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, "This page does not exist."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, domain.UserMessage(err)
	case errors.Is(err, domain.ErrAdminOnly), errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, domain.UserMessage(err)
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case domain.KindForbidden:
			return http.StatusForbidden, domain.UserMessage(err)
		case domain.KindNotFound:
			return http.StatusNotFound, domain.UserMessage(err)
		case domain.KindValidation:
			return http.StatusUnprocessableEntity, domain.UserMessage(err)
		}
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend failure")
		return http.StatusBadGateway, domain.UserMessage(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
