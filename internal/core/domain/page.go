package domain

// Page is a logical portal page identifier.
type Page string

const (
	PageFeed         Page = "feed"
	PageLogin        Page = "login"
	PageRegisterRole Page = "register-role"
	PageRegister     Page = "register"
	PageProfile      Page = "profile"
	PageMyProfile    Page = "my-profile"
	PageMessages     Page = "messages"
	PageAdmin        Page = "admin"
)

// DefaultPage is shown when no other page can be restored.
const DefaultPage = PageFeed

// Valid reports whether p names a known page.
func (p Page) Valid() bool {
	switch p {
	case PageFeed, PageLogin, PageRegisterRole, PageRegister,
		PageProfile, PageMyProfile, PageMessages, PageAdmin:
		return true
	}
	return false
}

// PageState is one navigation history entry. UserID is set for the public
// profile page; Role for the second registration step.
type PageState struct {
	Page   Page  `json:"page"`
	UserID int64 `json:"user_id,omitempty"`
	Role   Role  `json:"role,omitempty"`
}

// Valid reports whether the state can be rendered.
func (s PageState) Valid() bool {
	if !s.Page.Valid() {
		return false
	}
	switch s.Page {
	case PageProfile:
		return s.UserID > 0
	case PageRegister:
		return s.Role.Valid()
	}
	return true
}

// History is the navigation history of one session. Index points at the
// current entry.
type History struct {
	Entries []PageState `json:"entries"`
	Index   int         `json:"index"`
}
