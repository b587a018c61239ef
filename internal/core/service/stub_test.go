package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/infrastructure/db/memory"
)

// stubBackend records every call by name; unset functions return zero values.
type stubBackend struct {
	mu    sync.Mutex
	calls []string

	loginFn         func(in ports.LoginInput) (*ports.AuthResult, error)
	registerFn      func(in ports.RegisterInput) (*ports.AuthResult, error)
	feedFn          func() ([]domain.FeedRecord, error)
	meFn            func(token string) (*domain.Profile, error)
	userFn          func(id int64) (*domain.Profile, error)
	updateMeFn      func(patch ports.ProfilePatch) error
	addProjectFn    func(in ports.ProjectInput) error
	submitPaymentFn func(url string) error
	adminUsersFn    func() ([]domain.AdminUser, error)
	adminPaymentsFn func() ([]domain.Payment, error)
	toggleFn        func(id int64) error
	approveFn       func(id int64) error
	inboxFn         func() ([]domain.Contact, error)
	conversationFn  func(id int64) ([]domain.Message, error)
	sendFn          func(receiverID int64, content string) (*domain.Message, error)
}

var _ ports.Backend = (*stubBackend)(nil)

func (s *stubBackend) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubBackend) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *stubBackend) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubBackend) Login(_ context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	s.record("Login")
	if s.loginFn == nil {
		return nil, errors.New("login not stubbed")
	}
	return s.loginFn(in)
}

func (s *stubBackend) Register(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	s.record("Register")
	if s.registerFn == nil {
		return nil, errors.New("register not stubbed")
	}
	return s.registerFn(in)
}

func (s *stubBackend) Feed(context.Context) ([]domain.FeedRecord, error) {
	s.record("Feed")
	if s.feedFn == nil {
		return []domain.FeedRecord{}, nil
	}
	return s.feedFn()
}

func (s *stubBackend) Me(_ context.Context, token string) (*domain.Profile, error) {
	s.record("Me")
	if s.meFn == nil {
		return &domain.Profile{}, nil
	}
	return s.meFn(token)
}

func (s *stubBackend) User(_ context.Context, id int64) (*domain.Profile, error) {
	s.record("User")
	if s.userFn == nil {
		return nil, &domain.APIError{Kind: domain.KindNotFound, Status: 404}
	}
	return s.userFn(id)
}

func (s *stubBackend) UpdateMe(_ context.Context, _ string, patch ports.ProfilePatch) error {
	s.record("UpdateMe")
	if s.updateMeFn == nil {
		return nil
	}
	return s.updateMeFn(patch)
}

func (s *stubBackend) AddProject(_ context.Context, _ string, in ports.ProjectInput) error {
	s.record("AddProject")
	if s.addProjectFn == nil {
		return nil
	}
	return s.addProjectFn(in)
}

func (s *stubBackend) SubmitPayment(_ context.Context, _ string, url string) error {
	s.record("SubmitPayment")
	if s.submitPaymentFn == nil {
		return nil
	}
	return s.submitPaymentFn(url)
}

func (s *stubBackend) AdminUsers(context.Context, string) ([]domain.AdminUser, error) {
	s.record("AdminUsers")
	if s.adminUsersFn == nil {
		return []domain.AdminUser{}, nil
	}
	return s.adminUsersFn()
}

func (s *stubBackend) AdminPayments(context.Context, string) ([]domain.Payment, error) {
	s.record("AdminPayments")
	if s.adminPaymentsFn == nil {
		return []domain.Payment{}, nil
	}
	return s.adminPaymentsFn()
}

func (s *stubBackend) ToggleUserStatus(_ context.Context, _ string, id int64) error {
	s.record("ToggleUserStatus")
	if s.toggleFn == nil {
		return nil
	}
	return s.toggleFn(id)
}

func (s *stubBackend) ApprovePayment(_ context.Context, _ string, id int64) error {
	s.record("ApprovePayment")
	if s.approveFn == nil {
		return nil
	}
	return s.approveFn(id)
}

func (s *stubBackend) Inbox(context.Context, string) ([]domain.Contact, error) {
	s.record("Inbox")
	if s.inboxFn == nil {
		return []domain.Contact{}, nil
	}
	return s.inboxFn()
}

func (s *stubBackend) Conversation(_ context.Context, _ string, id int64) ([]domain.Message, error) {
	s.record("Conversation")
	if s.conversationFn == nil {
		return []domain.Message{}, nil
	}
	return s.conversationFn(id)
}

func (s *stubBackend) SendMessage(_ context.Context, _ string, receiverID int64, content string) (*domain.Message, error) {
	s.record("SendMessage")
	if s.sendFn == nil {
		return &domain.Message{ID: 1, ReceiverID: receiverID, Content: content}, nil
	}
	return s.sendFn(receiverID, content)
}

// plainSealer marks sealed values without encrypting them.
type plainSealer struct{}

func (plainSealer) Seal(p string) (string, error) { return "sealed:" + p, nil }

func (plainSealer) Open(s string) (string, error) {
	p, ok := strings.CutPrefix(s, "sealed:")
	if !ok {
		return "", errors.New("not sealed")
	}
	return p, nil
}

// newStore opens a store on fresh memory storage, logged in as sess when
// non-nil.
func newStore(t *testing.T, sess *domain.Session) (*SessionStore, *memory.SessionStorage) {
	t.Helper()
	storage := memory.NewSessionStorage()
	store, err := OpenSessionStore(context.Background(), storage, plainSealer{}, "sid", zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if sess != nil {
		if err := store.Save(context.Background(), "t", *sess); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	return store, storage
}

var (
	clientSession = &domain.Session{Username: "awa", Role: domain.RoleClient, UserID: 3}
	adminSession  = &domain.Session{Username: "root", Role: domain.RoleClient, UserID: 1, IsAdmin: true}
)
