package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// AuthService implements login, registration and logout against the
// marketplace backend.
type AuthService struct {
	backend ports.Backend
	log     zerolog.Logger
	onLogin func(role domain.Role)
}

func NewAuthService(backend ports.Backend, log zerolog.Logger) *AuthService {
	return &AuthService{backend: backend, log: log}
}

// OnLogin registers a hook called after every successful login or
// registration (used for metrics).
func (s *AuthService) OnLogin(fn func(role domain.Role)) {
	s.onLogin = fn
}

// RegisterForm is the second registration step. Specialty applies to
// providers and ShopName to suppliers; both are ignored for other roles.
type RegisterForm struct {
	Username  string
	Email     string
	Password  string
	Role      domain.Role
	City      string
	Specialty string
	ShopName  string
}

// Login authenticates with the backend. On success the token and session are
// persisted and navigation returns to the feed; on failure nothing changes.
func (s *AuthService) Login(ctx context.Context, store *SessionStore, nav *Navigator, in ports.LoginInput) (domain.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return store.Session(), domain.ErrInvalidCredentials
	}

	res, err := s.backend.Login(ctx, in)
	if err != nil {
		s.log.Info().Err(err).Str("username", in.Username).Msg("login rejected")
		return store.Session(), err
	}
	return s.establish(ctx, store, nav, res)
}

// Register creates a backend account and logs it in.
func (s *AuthService) Register(ctx context.Context, store *SessionStore, nav *Navigator, form RegisterForm) (domain.Session, error) {
	if !form.Role.Valid() {
		return store.Session(), domain.ErrInvalidRole
	}
	if strings.TrimSpace(form.Username) == "" || form.Password == "" {
		return store.Session(), domain.ErrInvalidCredentials
	}

	in := ports.RegisterInput{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     form.Role,
		City:     strings.TrimSpace(form.City),
	}
	switch form.Role {
	case domain.RoleProvider:
		specialty := strings.TrimSpace(form.Specialty)
		in.Specialty = &specialty
	case domain.RoleSupplier:
		shop := strings.TrimSpace(form.ShopName)
		in.ShopName = &shop
	}

	res, err := s.backend.Register(ctx, in)
	if err != nil {
		s.log.Info().Err(err).Str("username", in.Username).Str("role", string(in.Role)).Msg("registration rejected")
		return store.Session(), err
	}
	return s.establish(ctx, store, nav, res)
}

// Logout clears storage and identity; the next page is the feed.
func (s *AuthService) Logout(ctx context.Context, store *SessionStore, nav *Navigator) error {
	username := store.Session().Username
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	nav.Reset()
	s.log.Info().Str("username", username).Msg("logged out")
	return nil
}

func (s *AuthService) establish(ctx context.Context, store *SessionStore, nav *Navigator, res *ports.AuthResult) (domain.Session, error) {
	if res.AccessToken == "" {
		return store.Session(), &domain.APIError{Kind: domain.KindMalformed, Endpoint: "auth", Detail: "missing access token"}
	}
	sess := domain.Session{
		IsLoggedIn: true,
		Username:   res.Username,
		Role:       res.Role,
		UserID:     res.UserID,
		IsAdmin:    res.IsAdmin,
	}
	if err := store.Save(ctx, res.AccessToken, sess); err != nil {
		return domain.Session{}, err
	}
	nav.Reset()

	if s.onLogin != nil {
		s.onLogin(sess.Role)
	}
	s.log.Info().Str("username", sess.Username).Str("role", string(sess.Role)).Bool("admin", sess.IsAdmin).Msg("logged in")
	return sess, nil
}

// TokenExpiry reads the exp claim of a backend access token without
// verifying it; the portal does not hold the backend's signing key. Tokens
// that are not JWTs or carry no exp report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether the token's exp claim lies before now.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !exp.After(now)
}
