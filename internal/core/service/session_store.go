package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// SessionStore is the single read/write path to the identity of one browser
// session. It is opened once per request and passed to every view that needs
// the session; nothing else touches session storage directly.
type SessionStore struct {
	sid     string
	storage ports.SessionStorage
	sealer  ports.TokenSealer
	log     zerolog.Logger

	session domain.Session
	token   string
	// cleared is set by Clear so a logout is not undone by writes later in
	// the same request.
	cleared bool
}

// OpenSessionStore loads the persisted session for sid. A record that cannot
// be decoded, or one that claims a login without a usable token, is cleared
// and the store starts logged out.
func OpenSessionStore(ctx context.Context, storage ports.SessionStorage, sealer ports.TokenSealer, sid string, log zerolog.Logger) (*SessionStore, error) {
	s := &SessionStore{sid: sid, storage: storage, sealer: sealer, log: log}

	raw, ok, err := storage.Get(ctx, sid, ports.KeySession)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if !ok {
		return s, nil
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		log.Warn().Err(err).Str("sid", sid).Msg("corrupt session record, resetting")
		return s, s.reset(ctx)
	}
	sess = sess.Normalize()
	if !sess.IsLoggedIn {
		return s, nil
	}

	sealed, ok, err := storage.Get(ctx, sid, ports.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	token := ""
	if ok {
		token, err = sealer.Open(sealed)
		if err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("unreadable session token, resetting")
		}
	}
	if token == "" {
		return s, s.reset(ctx)
	}

	s.session = sess
	s.token = token
	return s, nil
}

// ID is the session id the store is bound to.
func (s *SessionStore) ID() string { return s.sid }

// Session returns a snapshot of the current identity.
func (s *SessionStore) Session() domain.Session { return s.session }

// Token is the backend bearer token, empty when logged out.
func (s *SessionStore) Token() string { return s.token }

// Save persists a freshly authenticated identity.
func (s *SessionStore) Save(ctx context.Context, token string, sess domain.Session) error {
	sess.IsLoggedIn = true
	record, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("save session: seal token: %w", err)
	}

	if err := s.storage.Set(ctx, s.sid, ports.KeyToken, sealed); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.storage.Set(ctx, s.sid, ports.KeySession, string(record)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.storage.Set(ctx, s.sid, ports.KeyUserID, strconv.FormatInt(sess.UserID, 10)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.session = sess
	s.token = token
	s.cleared = false
	return nil
}

// Clear wipes every stored key and resets the in-memory identity. History
// writes made afterwards through this store are dropped.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.cleared = true
	return s.reset(ctx)
}

func (s *SessionStore) reset(ctx context.Context) error {
	s.session = domain.Session{}
	s.token = ""
	if err := s.storage.Clear(ctx, s.sid); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// StashChatTarget records the contact the messaging page should open next.
func (s *SessionStore) StashChatTarget(ctx context.Context, c domain.Contact) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("stash chat target: %w", err)
	}
	return s.storage.Set(ctx, s.sid, ports.KeyChatTarget, string(raw))
}

// TakeChatTarget returns the stashed contact and removes it, so it is
// consumed at most once. A malformed record is dropped.
func (s *SessionStore) TakeChatTarget(ctx context.Context) (*domain.Contact, error) {
	raw, ok, err := s.storage.Get(ctx, s.sid, ports.KeyChatTarget)
	if err != nil {
		return nil, fmt.Errorf("take chat target: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if err := s.storage.Delete(ctx, s.sid, ports.KeyChatTarget); err != nil {
		return nil, fmt.Errorf("take chat target: %w", err)
	}

	var c domain.Contact
	if err := json.Unmarshal([]byte(raw), &c); err != nil || c.ID <= 0 {
		s.log.Warn().Str("sid", s.sid).Msg("invalid chat target dropped")
		return nil, nil
	}
	return &c, nil
}

// History loads the persisted navigation history, or an empty one.
func (s *SessionStore) History(ctx context.Context) (domain.History, error) {
	raw, ok, err := s.storage.Get(ctx, s.sid, ports.KeyHistory)
	if err != nil {
		return domain.History{}, fmt.Errorf("load history: %w", err)
	}
	if !ok {
		return domain.History{}, nil
	}
	var h domain.History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return domain.History{}, nil
	}
	return h, nil
}

// SaveHistory persists the navigation history. It is a no-op once the
// session has been cleared.
func (s *SessionStore) SaveHistory(ctx context.Context, h domain.History) error {
	if s.cleared {
		return nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return s.storage.Set(ctx, s.sid, ports.KeyHistory, string(raw))
}
