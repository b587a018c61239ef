package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baticonnect/portal/internal/core/service"
)

// NavHandler moves through the session's page history.
type NavHandler struct{}

func NewNavHandler() *NavHandler {
	return &NavHandler{}
}

func (h *NavHandler) Back(c echo.Context) error {
	_, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, service.Path(nav.Back()))
}

func (h *NavHandler) Forward(c echo.Context) error {
	_, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, service.Path(nav.Forward()))
}
