package render

import "github.com/baticonnect/portal/internal/core/domain"

// Layout is the shared chrome every page renders: title, active page, the
// session identity and the history buttons.
type Layout struct {
	Title      string
	Page       domain.Page
	Session    domain.Session
	CanBack    bool
	CanForward bool
	// Retry reloads the current page; failed sections link to it.
	Retry string
}

// LayoutProvider is implemented by every page view-model.
type LayoutProvider interface {
	LayoutData() *Layout
}

// LayoutData lets page structs embedding Layout satisfy LayoutProvider.
func (l *Layout) LayoutData() *Layout { return l }
