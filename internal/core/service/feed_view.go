package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// Category is the feed tab filter.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryProvider Category = "provider"
	CategorySupplier Category = "supplier"
)

// ParseCategory accepts tab names and role names; anything else is "all".
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CategoryProvider), string(domain.RoleProvider):
		return CategoryProvider
	case string(CategorySupplier), string(domain.RoleSupplier):
		return CategorySupplier
	default:
		return CategoryAll
	}
}

// Matches reports whether a listing of the given role belongs to the tab.
func (c Category) Matches(role domain.Role) bool {
	switch c {
	case CategoryProvider:
		return role == domain.RoleProvider
	case CategorySupplier:
		return role == domain.RoleSupplier
	default:
		return true
	}
}

// FilterListings keeps the listings in the tab whose name, category or
// location contains search, ignoring case. Search text is matched as typed,
// surrounding spaces included. Fetch order is preserved.
func FilterListings(listings []domain.Listing, search string, category Category) []domain.Listing {
	needle := strings.ToLower(search)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !category.Matches(l.Role) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Category), needle) &&
			!strings.Contains(strings.ToLower(l.Location), needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FeedView is the state of the feed page for one request.
type FeedView struct {
	Search   string
	Category Category

	State    LoadState
	Err      error
	All      []domain.Listing
	Listings []domain.Listing

	backend ports.Backend
	guard   RequestGuard
	log     zerolog.Logger
}

func NewFeedView(backend ports.Backend, search string, category Category, log zerolog.Logger) *FeedView {
	return &FeedView{Search: search, Category: category, backend: backend, log: log}
}

// Load fetches the listings and applies the current filter.
func (v *FeedView) Load(ctx context.Context) error {
	v.State = StateLoading
	reqCtx, token := v.guard.Begin(ctx)

	records, err := v.backend.Feed(reqCtx)
	v.guard.Apply(token, func() {
		if err != nil {
			v.State, v.Err = StateFailed, err
			return
		}
		v.All = make([]domain.Listing, 0, len(records))
		for _, r := range records {
			v.All = append(v.All, r.ToListing())
		}
		v.refilter()
	})
	if err != nil {
		v.log.Warn().Err(err).Msg("feed load failed")
	}
	return err
}

// SetFilter changes search text and tab without refetching.
func (v *FeedView) SetFilter(search string, category Category) {
	v.Search, v.Category = search, category
	if v.State == StateReady || v.State == StateEmpty {
		v.refilter()
	}
}

func (v *FeedView) refilter() {
	v.Listings = FilterListings(v.All, v.Search, v.Category)
	v.Err = nil
	if len(v.Listings) == 0 {
		v.State = StateEmpty
	} else {
		v.State = StateReady
	}
}

// Close drops any in-flight response.
func (v *FeedView) Close() { v.guard.Close() }
