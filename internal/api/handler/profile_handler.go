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

type ProfileHandler struct {
	backend ports.Backend
}

func NewProfileHandler(backend ports.Backend) *ProfileHandler {
	return &ProfileHandler{backend: backend}
}

type fieldForm struct {
	Field string `form:"field" validate:"required,oneof=bio phone city avatar_url"`
	Value string `form:"value" validate:"max=2000"`
}

type projectForm struct {
	Title       string `form:"title" validate:"required,max=120"`
	Description string `form:"description" validate:"required"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

type paymentForm struct {
	ScreenshotURL string `form:"screenshot_url" validate:"required,url"`
}

type profilePage struct {
	render.Layout
	View    *service.ProfileView
	Error   string
	Project projectForm
}

// User renders the public profile at /users/:id.
func (h *ProfileHandler) User(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageProfile, UserID: id}); done {
		return err
	}

	view := service.NewProfileView(h.backend, store, id, false, reqLog(c))
	defer view.Close()
	_ = view.Load(c.Request().Context())
	return h.render(c, store, nav, view, nil, projectForm{})
}

// Me renders the caller's own, editable profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageMyProfile}); done {
		return err
	}

	view := h.ownView(c, store)
	defer view.Close()
	_ = view.Load(c.Request().Context())
	return h.render(c, store, nav, view, nil, projectForm{})
}

// UpdateField saves one field as a partial update. On failure the page is
// re-rendered with the field reverted to its saved value.
func (h *ProfileHandler) UpdateField(c echo.Context) error {
	var form fieldForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return h.edit(c, &form, projectForm{}, func(v *service.ProfileView) error {
		return v.UpdateField(c.Request().Context(), form.Field, form.Value)
	})
}

// AddProject adds a portfolio project.
func (h *ProfileHandler) AddProject(c echo.Context) error {
	var form projectForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return h.edit(c, &form, form, func(v *service.ProfileView) error {
		return v.AddProject(c.Request().Context(), ports.ProjectInput{
			Title:       form.Title,
			Description: form.Description,
			ImageURL:    form.ImageURL,
		})
	})
}

// SubmitPayment sends the subscription payment screenshot.
func (h *ProfileHandler) SubmitPayment(c echo.Context) error {
	var form paymentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return h.edit(c, &form, projectForm{}, func(v *service.ProfileView) error {
		return v.SubmitPayment(c.Request().Context(), form.ScreenshotURL)
	})
}

// edit loads the owner's profile, applies action and redirects back to
// /me. Any failure re-renders the profile with the error inline.
func (h *ProfileHandler) edit(c echo.Context, form any, project projectForm, action func(*service.ProfileView) error) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	view := h.ownView(c, store)
	defer view.Close()

	if err := view.Load(c.Request().Context()); err != nil {
		return h.render(c, store, nav, view, err, project)
	}
	if err := c.Validate(form); err != nil {
		return h.render(c, store, nav, view, err, project)
	}
	if err := action(view); err != nil {
		return h.render(c, store, nav, view, err, project)
	}
	return c.Redirect(http.StatusSeeOther, "/me")
}

func (h *ProfileHandler) ownView(c echo.Context, store *service.SessionStore) *service.ProfileView {
	return service.NewProfileView(h.backend, store, store.Session().UserID, true, reqLog(c))
}

func (h *ProfileHandler) render(c echo.Context, store *service.SessionStore, nav *service.Navigator, view *service.ProfileView, err error, project projectForm) error {
	title := "Profile"
	if view.Profile != nil {
		title = view.Profile.DisplayName()
	}
	page := profilePage{Layout: layout(store, nav, title), View: view, Project: project}
	status := http.StatusOK
	switch {
	case err != nil:
		page.Error = errorText(err)
		status = statusFor(err)
	case view.State == service.StateFailed:
		status = statusFor(view.Err)
	}
	return c.Render(status, render.PageProfile, page)
}
