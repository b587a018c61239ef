package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/baticonnect/portal/internal/api/render"
	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

type FeedHandler struct {
	backend ports.Backend
	onSent  func()
}

func NewFeedHandler(backend ports.Backend, onSent func()) *FeedHandler {
	return &FeedHandler{backend: backend, onSent: onSent}
}

type composeForm struct {
	ReceiverID int64  `form:"receiver_id" validate:"gt=0"`
	Content    string `form:"content" validate:"max=2000"`
}

type feedTab struct {
	Category service.Category
	Label    string
	URL      string
	Active   bool
}

type feedPage struct {
	render.Layout
	View *service.FeedView
	Tabs []feedTab

	// Compose is the listing the message modal is open for.
	Compose   *domain.Listing
	Draft     string
	SendError string
	Sent      bool
}

// Feed lists providers and suppliers, filtered by ?q= and ?category=. With
// ?to=<id> the compose modal is open for that listing.
func (h *FeedHandler) Feed(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if done, err := visit(c, nav, domain.PageState{Page: domain.PageFeed}); done {
		return err
	}

	page := h.load(c, store, nav)
	if to, err := strconv.ParseInt(c.QueryParam("to"), 10, 64); err == nil {
		page.Compose = findListing(page.View.All, to)
	}
	page.Sent = c.QueryParam("sent") == "1"
	return c.Render(http.StatusOK, render.PageFeed, page)
}

// SendMessage is the compose modal's submit. Anonymous visitors are sent to
// the login page; blank text sends nothing.
func (h *FeedHandler) SendMessage(c echo.Context) error {
	store, nav, err := ctxSession(c)
	if err != nil {
		return err
	}
	if !store.Session().IsLoggedIn {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	var form composeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderCompose(c, store, nav, form, err)
	}

	msg, err := service.SendDirect(c.Request().Context(), h.backend, store, form.ReceiverID, form.Content)
	if err != nil {
		log := reqLog(c)
		log.Warn().Err(err).Int64("receiver_id", form.ReceiverID).Msg("compose send failed")
		return h.renderCompose(c, store, nav, form, err)
	}
	if msg == nil {
		return c.Redirect(http.StatusSeeOther, "/?to="+strconv.FormatInt(form.ReceiverID, 10))
	}
	if h.onSent != nil {
		h.onSent()
	}
	return c.Redirect(http.StatusSeeOther, "/?sent=1")
}

func (h *FeedHandler) renderCompose(c echo.Context, store *service.SessionStore, nav *service.Navigator, form composeForm, err error) error {
	page := h.load(c, store, nav)
	page.Compose = findListing(page.View.All, form.ReceiverID)
	if page.Compose == nil {
		page.Compose = &domain.Listing{ID: form.ReceiverID}
	}
	page.Draft = form.Content
	page.SendError = errorText(err)
	return c.Render(statusFor(err), render.PageFeed, page)
}

func (h *FeedHandler) load(c echo.Context, store *service.SessionStore, nav *service.Navigator) feedPage {
	category := service.ParseCategory(c.QueryParam("category"))
	view := service.NewFeedView(h.backend, c.QueryParam("q"), category, reqLog(c))
	defer view.Close()
	_ = view.Load(c.Request().Context())

	page := feedPage{
		Layout: layout(store, nav, "Feed"),
		View:   view,
		Tabs:   feedTabs(view.Search, category),
	}
	page.Retry = feedURL(view.Search, category)
	return page
}

func feedTabs(search string, active service.Category) []feedTab {
	tabs := []feedTab{
		{Category: service.CategoryAll, Label: "All"},
		{Category: service.CategoryProvider, Label: "Providers"},
		{Category: service.CategorySupplier, Label: "Suppliers"},
	}
	for i := range tabs {
		tabs[i].URL = feedURL(search, tabs[i].Category)
		tabs[i].Active = tabs[i].Category == active
	}
	return tabs
}

// feedURL builds the feed link for a search and tab.
func feedURL(search string, category service.Category) string {
	q := url.Values{}
	if search != "" {
		q.Set("q", search)
	}
	if category != service.CategoryAll {
		q.Set("category", string(category))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func findListing(listings []domain.Listing, id int64) *domain.Listing {
	for i := range listings {
		if listings[i].ID == id {
			l := listings[i]
			return &l
		}
	}
	return nil
}
