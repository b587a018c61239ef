package ports

import (
	"context"

	"github.com/baticonnect/portal/internal/core/domain"
)

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput is the body of POST /auth/register. Specialty is only sent
// for providers and ShopName only for suppliers.
type RegisterInput struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	City      string      `json:"city"`
	Specialty *string     `json:"specialty"`
	ShopName  *string     `json:"shop_name"`
}

// AuthResult is the success body shared by login and register.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	UserID      int64       `json:"user_id"`
	IsAdmin     bool        `json:"is_admin"`
}

// ProfilePatch is the body of PATCH /users/me. Nil fields are omitted so a
// single edited field can be sent on its own.
type ProfilePatch struct {
	Bio       *string `json:"bio,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	City      *string `json:"city,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ProjectInput is the body of POST /users/me/projects.
type ProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Backend is the typed gateway to the marketplace REST API. Calls taking a
// token send it as a bearer credential.
type Backend interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	Feed(ctx context.Context) ([]domain.FeedRecord, error)

	Me(ctx context.Context, token string) (*domain.Profile, error)
	User(ctx context.Context, id int64) (*domain.Profile, error)
	UpdateMe(ctx context.Context, token string, patch ProfilePatch) error
	AddProject(ctx context.Context, token string, in ProjectInput) error
	SubmitPayment(ctx context.Context, token, screenshotURL string) error

	AdminUsers(ctx context.Context, token string) ([]domain.AdminUser, error)
	AdminPayments(ctx context.Context, token string) ([]domain.Payment, error)
	ToggleUserStatus(ctx context.Context, token string, userID int64) error
	ApprovePayment(ctx context.Context, token string, paymentID int64) error

	Inbox(ctx context.Context, token string) ([]domain.Contact, error)
	Conversation(ctx context.Context, token string, contactID int64) ([]domain.Message, error)
	SendMessage(ctx context.Context, token string, receiverID int64, content string) (*domain.Message, error)
}
