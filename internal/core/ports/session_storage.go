package ports

import "context"

// Keys held in session storage for one browser session.
const (
	KeyToken      = "token"
	KeySession    = "user_session"
	KeyUserID     = "current_user_id"
	KeyChatTarget = "admin_chat_target"
	KeyHistory    = "nav_history"
)

// SessionStorage is the durable key/value store behind a browser session.
// Values are opaque strings; a missing key is reported with ok=false.
type SessionStorage interface {
	Get(ctx context.Context, sid, key string) (value string, ok bool, err error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid string, keys ...string) error
	// Clear removes every key of the session.
	Clear(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}

// TokenSealer encrypts backend credentials before they reach storage.
type TokenSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
