package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/api/handler"
	"github.com/baticonnect/portal/internal/api/metrics"
	"github.com/baticonnect/portal/internal/api/middleware"
	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Backend ports.Backend
	Session middleware.SessionConfig
	// Checks feed the readiness endpoint, keyed by dependency name.
	Checks map[string]handler.Check
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(d.Log))

	// --- Health checks and metrics (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metrics.Handler())

	// --- Dependencies ---
	authService := service.NewAuthService(d.Backend, d.Log)
	authService.OnLogin(func(role domain.Role) {
		metrics.LoginsTotal.WithLabelValues(string(role)).Inc()
	})
	onSent := func() { metrics.MessagesSentTotal.Inc() }

	authHandler := handler.NewAuthHandler(authService)
	feedHandler := handler.NewFeedHandler(d.Backend, onSent)
	profileHandler := handler.NewProfileHandler(d.Backend)
	messagesHandler := handler.NewMessagesHandler(d.Backend, onSent)
	adminHandler := handler.NewAdminHandler(d.Backend)
	navHandler := handler.NewNavHandler()

	// --- Pages ---
	session := middleware.Session(d.Session, d.Log)
	member := []echo.MiddlewareFunc{session, middleware.RequireLogin()}
	admin := []echo.MiddlewareFunc{session, middleware.RequireLogin(), middleware.RequireAdmin()}

	e.GET("/", feedHandler.Feed, session)
	e.POST("/feed/message", feedHandler.SendMessage, session)

	e.GET("/login", authHandler.LoginPage, session)
	e.POST("/login", authHandler.Login, session)
	e.POST("/logout", authHandler.Logout, session)
	e.GET("/register", authHandler.RegisterRolePage, session)
	e.GET("/register/:role", authHandler.RegisterPage, session)
	e.POST("/register/:role", authHandler.Register, session)

	e.GET("/users/:id", profileHandler.User, session)

	e.GET("/nav/back", navHandler.Back, session)
	e.GET("/nav/forward", navHandler.Forward, session)

	// --- Logged-in pages ---
	e.GET("/me", profileHandler.Me, member...)
	e.POST("/me/field", profileHandler.UpdateField, member...)
	e.POST("/me/projects", profileHandler.AddProject, member...)
	e.POST("/me/pay", profileHandler.SubmitPayment, member...)
	e.GET("/messages", messagesHandler.Inbox, member...)
	e.POST("/messages", messagesHandler.Send, member...)

	// --- Admin console ---
	e.GET("/admin", adminHandler.Console, admin...)
	e.POST("/admin/users/:id/toggle", adminHandler.ToggleStatus, admin...)
	e.POST("/admin/payments/:id/approve", adminHandler.ApprovePayment, admin...)
	e.POST("/admin/users/:id/contact", adminHandler.Contact, admin...)

	return e, nil
}
