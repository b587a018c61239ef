package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=64"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Role      string `param:"role" validate:"required,oneof=client prestataire fournisseur"`
	Username  string `form:"username" validate:"required,max=64"`
	Email     string `form:"email" validate:"required,email"`
	City      string `form:"city" validate:"required"`
	Password  string `form:"password" validate:"required"`
	Specialty string `form:"specialty" validate:"required_if=Role prestataire"`
	ShopName  string `form:"shop_name" validate:"required_if=Role fournisseur"`
}

type loginPage struct {
	render.Layout
	Username string
	Error    string
}

type roleOption struct {
	Role        domain.Role
	Label       string
	Description string
}

type registerRolePage struct {
	render.Layout
	Roles []roleOption
}

type registerPage struct {
	render.Layout
	Role  domain.Role
	Form  registerForm
	Error string
}

var roleOptions = []roleOption{
	{domain.RoleClient, "Client", "I am looking for professionals and materials."},
	{domain.RoleProvider, "Provider", "I offer services: masonry, plumbing, electricity..."},
	{domain.RoleSupplier, "Supplier", "I sell building materials."},
}

// LoginPage renders the login form. Logged-in sessions go to the feed.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if store.Session().IsLoggedIn {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageLogin}); done {
		return err
	}
	return c.Render(http.StatusOK, render.PageLogin, loginPage{Layout: layout(store, nav, "Log in")})
}

// Login authenticates against the backend and lands on the feed. A failure
// re-renders the form with the server's message and leaves the session as is.
func (h *AuthHandler) Login(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLogin(c, store, nav, form, err)
	}

	in := ports.LoginInput{Username: form.Username, Password: form.Password}
	if _, err := h.authService.Login(c.Request().Context(), store, nav, in); err != nil {
		return h.renderLogin(c, store, nav, form, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderLogin(c echo.Context, store *service.SessionStore, nav *service.Navigator, form loginForm, err error) error {
	page := loginPage{
		Layout:   layout(store, nav, "Log in"),
		Username: form.Username,
		Error:    authErrorText(err),
	}
	return c.Render(statusFor(err), render.PageLogin, page)
}

// Logout clears the session and returns to the feed.
func (h *AuthHandler) Logout(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), store, nav); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterRolePage is the first registration step: choosing a role.
func (h *AuthHandler) RegisterRolePage(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageRegisterRole}); done {
		return err
	}
	page := registerRolePage{Layout: layout(store, nav, "Join"), Roles: roleOptions}
	return c.Render(http.StatusOK, render.PageRegisterRole, page)
}

// RegisterPage is the second step: the form for the chosen role.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	role := domain.Role(c.Param("role"))
	if !role.Valid() {
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageRegister, Role: role}); done {
		return err
	}
	page := registerPage{Layout: layout(store, nav, "Create an account"), Role: role, Form: registerForm{Role: string(role)}}
	return c.Render(http.StatusOK, render.PageRegister, page)
}

// Register creates the account and logs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	role := domain.Role(form.Role)
	if !role.Valid() {
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderRegister(c, store, nav, form, err)
	}

	_, err = h.authService.Register(c.Request().Context(), store, nav, service.RegisterForm{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Role:      role,
		City:      form.City,
		Specialty: form.Specialty,
		ShopName:  form.ShopName,
	})
	if err != nil {
		return h.renderRegister(c, store, nav, form, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderRegister(c echo.Context, store *service.SessionStore, nav *service.Navigator, form registerForm, err error) error {
	form.Password = ""
	page := registerPage{
		Layout: layout(store, nav, "Create an account"),
		Role:   domain.Role(form.Role),
		Form:   form,
		Error:  authErrorText(err),
	}
	return c.Render(statusFor(err), render.PageRegister, page)
}

// authErrorText shows the backend's own message for rejected credentials.
func authErrorText(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Kind == domain.KindUnauthorized {
			return "Invalid username or password."
		}
	}
	return errorText(err)
}
