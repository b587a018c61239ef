package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// AdminView is the moderation console: every user and every pending
// payment, both refetched wholesale after each action.
type AdminView struct {
	State     LoadState
	Err       error
	ActionErr error
	Users     []domain.AdminUser
	Payments  []domain.Payment

	backend ports.Backend
	store   *SessionStore
	guard   RequestGuard
	log     zerolog.Logger
}

func NewAdminView(backend ports.Backend, store *SessionStore, log zerolog.Logger) *AdminView {
	return &AdminView{backend: backend, store: store, log: log}
}

// Load fetches users and pending payments concurrently. Either failing
// leaves the view failed; nothing from a partial result is shown.
func (v *AdminView) Load(ctx context.Context) error {
	if !v.store.Session().IsLoggedIn {
		v.State, v.Err = StateFailed, domain.ErrNotLoggedIn
		return domain.ErrNotLoggedIn
	}
	v.State = StateLoading
	reqCtx, token := v.guard.Begin(ctx)

	var (
		users    []domain.AdminUser
		payments []domain.Payment
	)
	g, gctx := errgroup.WithContext(reqCtx)
	g.Go(func() error {
		var err error
		users, err = v.backend.AdminUsers(gctx, v.store.Token())
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = v.backend.AdminPayments(gctx, v.store.Token())
		return err
	})
	err := g.Wait()

	applied := v.guard.Apply(token, func() {
		if err != nil {
			v.State, v.Err = StateFailed, err
			v.Users, v.Payments = nil, nil
			return
		}
		v.Users = users
		v.Payments = pendingOnly(payments)
		v.Err = nil
		if len(v.Users) == 0 && len(v.Payments) == 0 {
			v.State = StateEmpty
		} else {
			v.State = StateReady
		}
	})
	if !applied {
		return domain.ErrStaleResponse
	}
	if err != nil {
		v.log.Warn().Err(err).Msg("admin console load failed")
	}
	return err
}

// ToggleStatus bans or reactivates a user, then reloads both lists.
func (v *AdminView) ToggleStatus(ctx context.Context, userID int64) error {
	if err := v.backend.ToggleUserStatus(ctx, v.store.Token(), userID); err != nil {
		v.ActionErr = fmt.Errorf("toggle user %d: %w", userID, err)
		v.log.Warn().Err(err).Int64("user_id", userID).Msg("toggle status failed")
		return v.ActionErr
	}
	v.log.Info().Int64("user_id", userID).Str("admin", v.store.Session().Username).Msg("user status toggled")
	return v.Load(ctx)
}

// ApprovePayment approves a pending payment, then reloads both lists.
func (v *AdminView) ApprovePayment(ctx context.Context, paymentID int64) error {
	if err := v.backend.ApprovePayment(ctx, v.store.Token(), paymentID); err != nil {
		v.ActionErr = fmt.Errorf("approve payment %d: %w", paymentID, err)
		v.log.Warn().Err(err).Int64("payment_id", paymentID).Msg("payment approval failed")
		return v.ActionErr
	}
	v.log.Info().Int64("payment_id", paymentID).Str("admin", v.store.Session().Username).Msg("payment approved")
	return v.Load(ctx)
}

// Contact hands the user over to the messaging page, which opens a
// conversation with them on its next load.
func (v *AdminView) Contact(ctx context.Context, user domain.AdminUser) error {
	return v.store.StashChatTarget(ctx, user.Contact())
}

// Close drops any in-flight response.
func (v *AdminView) Close() { v.guard.Close() }

func pendingOnly(payments []domain.Payment) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if !p.Approved {
			out = append(out, p)
		}
	}
	return out
}
