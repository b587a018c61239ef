package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/core/service"
)

// Context keys set by Session.
const (
	StoreKey     = "session_store"
	NavigatorKey = "navigator"
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	CookieName string
	// Secret signs the session cookie (HS256).
	Secret  string
	Secure  bool
	TTL     time.Duration
	Storage ports.SessionStorage
	Sealer  ports.TokenSealer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session binds the request to a browser session. The session id travels in
// a signed cookie; a missing or invalid cookie starts a fresh session. The
// opened SessionStore and the Navigator restored from its history are placed
// in the echo context, and the history is persisted after the handler runs.
func Session(cfg SessionConfig, log zerolog.Logger) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "portal_session"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := cfg.Now()

			sid, ok := readSessionCookie(c, cfg)
			if !ok {
				sid = uuid.NewString()
				if err := writeSessionCookie(c, cfg, sid, now); err != nil {
					return err
				}
			}

			store, err := service.OpenSessionStore(ctx, cfg.Storage, cfg.Sealer, sid, log)
			if err != nil {
				return err
			}
			if sess := store.Session(); sess.IsLoggedIn && service.TokenExpired(store.Token(), now) {
				log.Info().Str("username", sess.Username).Msg("backend token expired, logging out")
				if err := store.Clear(ctx); err != nil {
					return err
				}
			}

			history, err := store.History(ctx)
			if err != nil {
				return err
			}
			nav := service.NewNavigator(history, func() bool { return store.Session().IsAdmin })

			c.Set(StoreKey, store)
			c.Set(NavigatorKey, nav)

			herr := next(c)

			if err := store.SaveHistory(ctx, nav.History()); err != nil {
				log.Warn().Err(err).Str("sid", sid).Msg("failed to persist navigation history")
			}
			return herr
		}
	}
}

// Store returns the request's SessionStore, nil outside the Session middleware.
func Store(c echo.Context) *service.SessionStore {
	s, _ := c.Get(StoreKey).(*service.SessionStore)
	return s
}

// Navigator returns the request's Navigator, nil outside the Session middleware.
func Navigator(c echo.Context) *service.Navigator {
	n, _ := c.Get(NavigatorKey).(*service.Navigator)
	return n
}

func readSessionCookie(c echo.Context, cfg SessionConfig) (string, bool) {
	cookie, err := c.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithTimeFunc(cfg.Now))
	if err != nil || !tkn.Valid {
		return "", false
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", false
	}
	return claims.ID, true
}

func writeSessionCookie(c echo.Context, cfg SessionConfig, sid string, now time.Time) error {
	claims := jwt.RegisteredClaims{
		ID:       sid,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(cfg.TTL))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		cookie.Expires = now.Add(cfg.TTL)
	}
	c.SetCookie(cookie)
	return nil
}
