package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

type AdminHandler struct {
	backend ports.Backend
}

func NewAdminHandler(backend ports.Backend) *AdminHandler {
	return &AdminHandler{backend: backend}
}

type adminPage struct {
	render.Layout
	View *service.AdminView
}

// Console renders all users and the pending payments.
func (h *AdminHandler) Console(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageAdmin}); done {
		return err
	}

	view := service.NewAdminView(h.backend, store, reqLog(c))
	defer view.Close()
	_ = view.Load(c.Request().Context())
	return h.render(c, store, nav, view)
}

// ToggleStatus bans or reactivates the user at :id.
func (h *AdminHandler) ToggleStatus(c echo.Context) error {
	return h.act(c, func(v *service.AdminView, id int64) error {
		return v.ToggleStatus(c.Request().Context(), id)
	})
}

// ApprovePayment approves the payment at :id.
func (h *AdminHandler) ApprovePayment(c echo.Context) error {
	return h.act(c, func(v *service.AdminView, id int64) error {
		return v.ApprovePayment(c.Request().Context(), id)
	})
}

// Contact opens a conversation with the user at :id on the messages page.
func (h *AdminHandler) Contact(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view := service.NewAdminView(h.backend, store, reqLog(c))
	defer view.Close()
	ctx := c.Request().Context()
	if err := view.Load(ctx); err != nil {
		return h.render(c, store, nav, view)
	}
	for _, u := range view.Users {
		if u.ID == id {
			if err := view.Contact(ctx, u); err != nil {
				return err
			}
			return c.Redirect(http.StatusSeeOther, "/messages")
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "user not found")
}

// act runs a moderation action. A successful action redirects to the console
// so a browser refresh cannot replay the POST. A failed one renders the
// current lists with the error.
func (h *AdminHandler) act(c echo.Context, action func(*service.AdminView, int64) error) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view := service.NewAdminView(h.backend, store, reqLog(c))
	defer view.Close()
	if err := action(view, id); err != nil && view.ActionErr != nil {
		_ = view.Load(c.Request().Context())
		return h.render(c, store, nav, view)
	}
	return c.Redirect(http.StatusSeeOther, service.Path(domain.PageState{Page: domain.PageAdmin}))
}

func (h *AdminHandler) render(c echo.Context, store *service.SessionStore, nav *service.Navigator, view *service.AdminView) error {
	status := http.StatusOK
	switch {
	case view.ActionErr != nil:
		status = statusFor(view.ActionErr)
	case view.State == service.StateFailed:
		status = statusFor(view.Err)
	}
	return c.Render(status, render.PageAdmin, adminPage{Layout: layout(store, nav, "Administration"), View: view})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
