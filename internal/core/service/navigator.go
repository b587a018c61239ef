package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/baticonnect/portal/internal/core/domain"
)

// maxHistory bounds the persisted history; the oldest entries are dropped.
const maxHistory = 50

// Navigator tracks the active page and a browser-style history of page
// states. It is a plain state container; callers persist History().
type Navigator struct {
	history domain.History
	isAdmin func() bool
}

// NewNavigator restores a navigator from persisted history. isAdmin is
// consulted on every navigation to the admin page.
func NewNavigator(h domain.History, isAdmin func() bool) *Navigator {
	n := &Navigator{history: h, isAdmin: isAdmin}
	if len(n.history.Entries) == 0 || n.history.Index < 0 || n.history.Index >= len(n.history.Entries) {
		n.history = domain.History{Entries: []domain.PageState{{Page: domain.DefaultPage}}}
	}
	return n
}

// Current is the active page state.
func (n *Navigator) Current() domain.PageState {
	return n.history.Entries[n.history.Index]
}

// History returns a copy of the history for persistence.
func (n *Navigator) History() domain.History {
	entries := make([]domain.PageState, len(n.history.Entries))
	copy(entries, n.history.Entries)
	return domain.History{Entries: entries, Index: n.history.Index}
}

// Navigate makes state the active page and pushes it onto the history,
// discarding forward entries. Re-navigating to the current state does not
// push a duplicate entry.
func (n *Navigator) Navigate(state domain.PageState) error {
	if !state.Valid() {
		return fmt.Errorf("navigate to %q: unknown page", state.Page)
	}
	if state.Page == domain.PageAdmin && (n.isAdmin == nil || !n.isAdmin()) {
		return domain.ErrAdminOnly
	}
	if n.Current() == state {
		return nil
	}

	entries := append(n.history.Entries[:n.history.Index+1:n.history.Index+1], state)
	if len(entries) > maxHistory {
		entries = entries[len(entries)-maxHistory:]
	}
	n.history = domain.History{Entries: entries, Index: len(entries) - 1}
	return nil
}

// Back moves one entry back and returns the restored state. At the start of
// the history it returns the current state.
func (n *Navigator) Back() domain.PageState {
	if n.history.Index > 0 {
		n.history.Index--
	}
	return n.Restore(&n.history.Entries[n.history.Index])
}

// Forward moves one entry forward and returns the restored state.
func (n *Navigator) Forward() domain.PageState {
	if n.history.Index < len(n.history.Entries)-1 {
		n.history.Index++
	}
	return n.Restore(&n.history.Entries[n.history.Index])
}

// Restore resolves a history state the way a popstate event would: a missing
// or unrenderable state falls back to the default page, and the admin page
// falls back to the default page for non-admins.
func (n *Navigator) Restore(state *domain.PageState) domain.PageState {
	if state == nil || !state.Valid() {
		return domain.PageState{Page: domain.DefaultPage}
	}
	if state.Page == domain.PageAdmin && (n.isAdmin == nil || !n.isAdmin()) {
		return domain.PageState{Page: domain.DefaultPage}
	}
	return *state
}

// Reset collapses the history to the default page. Used on login and logout.
func (n *Navigator) Reset() {
	n.history = domain.History{Entries: []domain.PageState{{Page: domain.DefaultPage}}}
}

// Path maps a page state onto its portal URL.
func Path(state domain.PageState) string {
	switch state.Page {
	case domain.PageLogin:
		return "/login"
	case domain.PageRegisterRole:
		return "/register"
	case domain.PageRegister:
		return "/register/" + url.PathEscape(string(state.Role))
	case domain.PageProfile:
		return "/users/" + strconv.FormatInt(state.UserID, 10)
	case domain.PageMyProfile:
		return "/me"
	case domain.PageMessages:
		return "/messages"
	case domain.PageAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// ParsePath is the inverse of Path. Unknown paths report ok=false.
func ParsePath(p string) (domain.PageState, bool) {
	p = "/" + strings.Trim(p, "/")
	switch p {
	case "/":
		return domain.PageState{Page: domain.PageFeed}, true
	case "/login":
		return domain.PageState{Page: domain.PageLogin}, true
	case "/register":
		return domain.PageState{Page: domain.PageRegisterRole}, true
	case "/me":
		return domain.PageState{Page: domain.PageMyProfile}, true
	case "/messages":
		return domain.PageState{Page: domain.PageMessages}, true
	case "/admin":
		return domain.PageState{Page: domain.PageAdmin}, true
	}

	if rest, found := strings.CutPrefix(p, "/users/"); found {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return domain.PageState{}, false
		}
		return domain.PageState{Page: domain.PageProfile, UserID: id}, true
	}
	if rest, found := strings.CutPrefix(p, "/register/"); found {
		role := domain.Role(rest)
		if !role.Valid() {
			return domain.PageState{}, false
		}
		return domain.PageState{Page: domain.PageRegister, Role: role}, true
	}
	return domain.PageState{}, false
}
