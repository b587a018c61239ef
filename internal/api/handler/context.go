package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/api/middleware"
	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/service"
	"github.com/baticonnect/portal/pkg/logger"
)

// ctxSession extracts the store and navigator set by the Session middleware.
// Their absence means the route was registered outside the middleware.
func ctxSession(c echo.Context) (*service.SessionStore, *service.Navigator, error) {
	store, nav := middleware.Store(c), middleware.Navigator(c)
	if store == nil || nav == nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return store, nav, nil
}

// visit makes state the active page. Pages the session may not see send it
// back to the feed.
func visit(c echo.Context, nav *service.Navigator, state domain.PageState) (redirected bool, err error) {
	if err := nav.Navigate(state); err != nil {
		if errors.Is(err, domain.ErrAdminOnly) {
			return true, c.Redirect(http.StatusSeeOther, service.Path(domain.PageState{Page: domain.DefaultPage}))
		}
		return true, echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return false, nil
}

func layout(store *service.SessionStore, nav *service.Navigator, title string) render.Layout {
	h := nav.History()
	return render.Layout{
		Title:      title,
		Page:       nav.Current().Page,
		Session:    store.Session(),
		CanBack:    h.Index > 0,
		CanForward: h.Index < len(h.Entries)-1,
		Retry:      service.Path(nav.Current()),
	}
}

func reqLog(c echo.Context) zerolog.Logger {
	return logger.FromContext(c.Request().Context())
}

// errorText is the inline message for a failed form submission.
func errorText(err error) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return domain.UserMessage(err)
}

// statusFor picks the response code for a page re-rendered after err.
func statusFor(err error) int {
	var fe *FormError
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &fe), errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUnknownField):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case domain.KindUnauthorized:
			return http.StatusUnauthorized
		case domain.KindForbidden:
			return http.StatusForbidden
		case domain.KindNotFound:
			return http.StatusNotFound
		case domain.KindValidation:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
