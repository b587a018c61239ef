package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireLogin redirects anonymous sessions to the login page.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := Store(c)
			if store == nil || !store.Session().IsLoggedIn {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireAdmin sends non-admin sessions back to the feed. The backend still
// authorises every admin call; this only keeps the console out of sight.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := Store(c)
			if store == nil || !store.Session().IsAdmin {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}
