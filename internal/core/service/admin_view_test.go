package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
)

func TestAdminView_LoadShowsPendingPaymentsOnly(t *testing.T) {
	backend := &stubBackend{
		adminUsersFn: func() ([]domain.AdminUser, error) {
			return []domain.AdminUser{{ID: 7, Username: "Moussa", IsActive: true}}, nil
		},
		adminPaymentsFn: func() ([]domain.Payment, error) {
			return []domain.Payment{{ID: 41, Approved: true}, {ID: 42}}, nil
		},
	}
	store, _ := newStore(t, adminSession)
	view := NewAdminView(backend, store, zerolog.Nop())
	defer view.Close()

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if view.State != StateReady || len(view.Users) != 1 {
		t.Fatalf("unexpected state %s", view.State)
	}
	if len(view.Payments) != 1 || view.Payments[0].ID != 42 {
		t.Fatalf("expected only payment 42, got %+v", view.Payments)
	}
}

func TestAdminView_ApprovePaymentRefetchesBoth(t *testing.T) {
	approved := false
	var approvedID int64
	backend := &stubBackend{
		adminPaymentsFn: func() ([]domain.Payment, error) {
			return []domain.Payment{{ID: 42, Approved: approved}}, nil
		},
		approveFn: func(id int64) error {
			approvedID = id
			approved = true
			return nil
		},
	}
	store, _ := newStore(t, adminSession)
	view := NewAdminView(backend, store, zerolog.Nop())
	defer view.Close()

	_ = view.Load(context.Background())
	if len(view.Payments) != 1 {
		t.Fatalf("expected payment 42 pending")
	}

	if err := view.ApprovePayment(context.Background(), 42); err != nil {
		t.Fatalf("ApprovePayment returned error: %v", err)
	}
	if approvedID != 42 {
		t.Fatalf("expected approval of 42, got %d", approvedID)
	}
	if backend.count("AdminUsers") != 2 || backend.count("AdminPayments") != 2 {
		t.Fatalf("expected both lists refetched, users %d payments %d", backend.count("AdminUsers"), backend.count("AdminPayments"))
	}
	if len(view.Payments) != 0 {
		t.Fatalf("approved payment must leave the pending list")
	}
}

func TestAdminView_ToggleTwiceRestoresStatus(t *testing.T) {
	active := true
	backend := &stubBackend{
		adminUsersFn: func() ([]domain.AdminUser, error) {
			return []domain.AdminUser{{ID: 7, Username: "Moussa", IsActive: active}}, nil
		},
		toggleFn: func(id int64) error {
			active = !active
			return nil
		},
	}
	store, _ := newStore(t, adminSession)
	view := NewAdminView(backend, store, zerolog.Nop())
	defer view.Close()

	if err := view.ToggleStatus(context.Background(), 7); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if view.Users[0].IsActive {
		t.Fatalf("expected user banned after first toggle")
	}
	if err := view.ToggleStatus(context.Background(), 7); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !view.Users[0].IsActive {
		t.Fatalf("expected user active after second toggle")
	}
}

func TestAdminView_ActionFailureSurfaced(t *testing.T) {
	backend := &stubBackend{
		toggleFn: func(int64) error {
			return &domain.APIError{Kind: domain.KindForbidden, Status: 403}
		},
	}
	store, _ := newStore(t, adminSession)
	view := NewAdminView(backend, store, zerolog.Nop())
	defer view.Close()

	err := view.ToggleStatus(context.Background(), 7)
	if !domain.IsKind(err, domain.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if view.ActionErr == nil {
		t.Fatalf("action failure must be surfaced")
	}
	if backend.count("AdminUsers") != 0 {
		t.Fatalf("failed action must not trigger a reload")
	}
}

func TestAdminView_LoadFailureIsDistinctFromEmpty(t *testing.T) {
	failing := &stubBackend{
		adminUsersFn: func() ([]domain.AdminUser, error) {
			return nil, &domain.APIError{Kind: domain.KindForbidden, Status: 403}
		},
	}
	store, _ := newStore(t, adminSession)
	view := NewAdminView(failing, store, zerolog.Nop())
	defer view.Close()

	if err := view.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if view.State != StateFailed || view.Users != nil {
		t.Fatalf("expected failed state with no partial data, got %s", view.State)
	}

	empty := NewAdminView(&stubBackend{}, store, zerolog.Nop())
	defer empty.Close()
	if err := empty.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if empty.State != StateEmpty {
		t.Fatalf("expected empty state, got %s", empty.State)
	}
}

func TestAdminView_ContactStashesChatTarget(t *testing.T) {
	store, _ := newStore(t, adminSession)
	view := NewAdminView(&stubBackend{}, store, zerolog.Nop())
	defer view.Close()

	user := domain.AdminUser{ID: 7, Username: "Moussa", AvatarURL: "m.png"}
	if err := view.Contact(context.Background(), user); err != nil {
		t.Fatalf("Contact returned error: %v", err)
	}
	target, err := store.TakeChatTarget(context.Background())
	if err != nil || target == nil || target.ID != 7 || target.AvatarURL != "m.png" {
		t.Fatalf("unexpected chat target %+v %v", target, err)
	}
}

func TestAdminView_RequiresLogin(t *testing.T) {
	store, _ := newStore(t, nil)
	view := NewAdminView(&stubBackend{}, store, zerolog.Nop())
	defer view.Close()

	if err := view.Load(context.Background()); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
