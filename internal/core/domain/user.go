package domain

import "strings"

// Role is the marketplace role a backend account was registered with.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "prestataire"
	RoleSupplier Role = "fournisseur"
)

// Valid reports whether r is one of the three marketplace roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleSupplier:
		return true
	}
	return false
}

// Session is the identity record of the browser currently using the portal.
// A zero Session is the logged-out state.
type Session struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Username   string `json:"username,omitempty"`
	Role       Role   `json:"role,omitempty"`
	UserID     int64  `json:"userId,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
}

// Normalize enforces that a logged-out session carries no identity fields.
func (s Session) Normalize() Session {
	if !s.IsLoggedIn {
		return Session{}
	}
	return s
}

// Project is one portfolio entry on a provider or supplier profile.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Profile is a backend user record as returned by /users/me and /users/{id}.
// Fields the backend withholds are simply empty.
type Profile struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	ShopName          string    `json:"shop_name,omitempty"`
	Email             string    `json:"email,omitempty"`
	Role              Role      `json:"role"`
	IsAdmin           bool      `json:"is_admin"`
	IsActive          bool      `json:"is_active"`
	Specialty         string    `json:"specialty,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	City              string    `json:"city,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	CVURL             string    `json:"cv_url,omitempty"`
	IsSubscribed      bool      `json:"is_subscribed"`
	HasPendingPayment bool      `json:"has_pending_payment"`
	Projects          []Project `json:"projects,omitempty"`
}

// DisplayName prefers the shop name suppliers register with.
func (p *Profile) DisplayName() string {
	return displayName(p.ShopName, p.Username)
}

// FeedRecord is one entry of GET /feed/.
type FeedRecord struct {
	ID        int64   `json:"id"`
	Role      Role    `json:"role"`
	Username  string  `json:"username"`
	ShopName  string  `json:"shop_name,omitempty"`
	Specialty string  `json:"specialty,omitempty"`
	Category  string  `json:"category,omitempty"`
	City      string  `json:"city,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	Rating    float64 `json:"rating"`
}

// Listing is the read-only projection of a feed record that the feed renders.
type Listing struct {
	ID       int64
	Role     Role
	Name     string
	Category string
	Location string
	ImageURL string
	Rating   float64
	Avatar   string
}

// ToListing projects a feed record onto the fields the feed filters and renders.
func (r FeedRecord) ToListing() Listing {
	category := r.Specialty
	if category == "" {
		category = r.Category
	}
	image := r.ImageURL
	if image == "" {
		image = r.AvatarURL
	}
	return Listing{
		ID:       r.ID,
		Role:     r.Role,
		Name:     displayName(r.ShopName, r.Username),
		Category: category,
		Location: r.City,
		ImageURL: image,
		Rating:   r.Rating,
		Avatar:   r.AvatarURL,
	}
}

// AdminUser is one row of GET /users/admin/all.
type AdminUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	ShopName  string `json:"shop_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsActive  bool   `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
}

// Contact turns an admin row into the inbox entry used for the chat handoff.
func (u AdminUser) Contact() Contact {
	return Contact{ID: u.ID, Username: u.Username, ShopName: u.ShopName, AvatarURL: u.AvatarURL}
}

func displayName(shopName, username string) string {
	if s := strings.TrimSpace(shopName); s != "" {
		return s
	}
	return username
}
