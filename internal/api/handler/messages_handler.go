package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

type MessagesHandler struct {
	backend ports.Backend
	onSent  func()
}

func NewMessagesHandler(backend ports.Backend, onSent func()) *MessagesHandler {
	return &MessagesHandler{backend: backend, onSent: onSent}
}

type sendForm struct {
	ContactID int64  `form:"contact_id" validate:"gt=0"`
	Content   string `form:"content" validate:"max=2000"`
}

type messagesPage struct {
	render.Layout
	View  *service.MessagingView
	Error string
}

// Inbox renders the contact list and, with ?with=<id>, the conversation
// with that contact.
func (h *MessagesHandler) Inbox(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageMessages}); done {
		return err
	}

	view := h.open(c, store)
	defer view.Close()
	if with, err := strconv.ParseInt(c.QueryParam("with"), 10, 64); err == nil && with > 0 {
		if view.Active == nil || view.Active.ID != with {
			_ = view.Select(c.Request().Context(), with)
		}
	}
	page := messagesPage{Layout: layout(store, nav, "Messages"), View: view}
	page.Retry = messagesURL(view)
	return c.Render(http.StatusOK, render.PageMessages, page)
}

// Send delivers a message to contact_id. Blank text sends nothing. A failed
// send re-renders the conversation with the text still in the input.
func (h *MessagesHandler) Send(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form sendForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errorText(err))
	}
	back := "/messages?with=" + strconv.FormatInt(form.ContactID, 10)
	if strings.TrimSpace(form.Content) == "" {
		return c.Redirect(http.StatusSeeOther, back)
	}

	view := h.open(c, store)
	defer view.Close()
	ctx := c.Request().Context()
	if view.Active == nil || view.Active.ID != form.ContactID {
		_ = view.Select(ctx, form.ContactID)
	}

	sent, err := view.Send(ctx, form.Content)
	if sent {
		return c.Redirect(http.StatusSeeOther, back)
	}
	page := messagesPage{Layout: layout(store, nav, "Messages"), View: view}
	page.Retry = messagesURL(view)
	if err != nil {
		page.Error = errorText(err)
	}
	return c.Render(statusFor(err), render.PageMessages, page)
}

func (h *MessagesHandler) open(c echo.Context, store *service.SessionStore) *service.MessagingView {
	view := service.NewMessagingView(h.backend, store, reqLog(c))
	view.OnSent(h.onSent)
	_ = view.LoadInbox(c.Request().Context())
	return view
}

// messagesURL reopens the messaging page on the active conversation.
func messagesURL(view *service.MessagingView) string {
	if view.Active == nil {
		return "/messages"
	}
	return "/messages?with=" + strconv.FormatInt(view.Active.ID, 10)
}
