package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// Editable profile fields, named as the backend names them.
const (
	FieldBio       = "bio"
	FieldPhone     = "phone"
	FieldCity      = "city"
	FieldAvatarURL = "avatar_url"
)

// ProfileView shows one profile; for the owner it also carries the editing
// operations.
type ProfileView struct {
	UserID int64
	IsMe   bool

	State   LoadState
	Err     error
	Profile *domain.Profile
	// Draft holds the locally typed values of the editable fields.
	Draft map[string]string

	backend ports.Backend
	store   *SessionStore
	guard   RequestGuard
	log     zerolog.Logger
}

// NewProfileView builds the view for the caller's own profile when isMe,
// otherwise for the public profile of userID.
func NewProfileView(backend ports.Backend, store *SessionStore, userID int64, isMe bool, log zerolog.Logger) *ProfileView {
	return &ProfileView{UserID: userID, IsMe: isMe, backend: backend, store: store, log: log}
}

// Load fetches the profile: /users/me with the session token for the
// owner, /users/{id} otherwise.
func (v *ProfileView) Load(ctx context.Context) error {
	if v.IsMe && !v.store.Session().IsLoggedIn {
		v.State, v.Err = StateFailed, domain.ErrNotLoggedIn
		return domain.ErrNotLoggedIn
	}
	v.State = StateLoading
	reqCtx, token := v.guard.Begin(ctx)

	var (
		p   *domain.Profile
		err error
	)
	if v.IsMe {
		p, err = v.backend.Me(reqCtx, v.store.Token())
	} else {
		p, err = v.backend.User(reqCtx, v.UserID)
	}

	applied := v.guard.Apply(token, func() {
		if err != nil {
			v.State, v.Err = StateFailed, err
			return
		}
		v.Profile = p
		v.Draft = map[string]string{
			FieldBio:       p.Bio,
			FieldPhone:     p.Phone,
			FieldCity:      p.City,
			FieldAvatarURL: p.AvatarURL,
		}
		v.State, v.Err = StateReady, nil
	})
	if !applied {
		return domain.ErrStaleResponse
	}
	if err != nil {
		v.log.Warn().Err(err).Int64("user_id", v.UserID).Bool("me", v.IsMe).Msg("profile load failed")
	}
	return err
}

// CanEdit is true only when the viewer owns the loaded profile.
func (v *ProfileView) CanEdit() bool {
	if !v.IsMe || v.Profile == nil {
		return false
	}
	sess := v.store.Session()
	return sess.IsLoggedIn && sess.UserID == v.Profile.ID
}

// ContactVisible reports whether email and phone are shown: to the owner, and
// on client or admin profiles.
func (v *ProfileView) ContactVisible() bool {
	if v.Profile == nil {
		return false
	}
	return v.CanEdit() || v.Profile.Role == domain.RoleClient || v.Profile.IsAdmin
}

// ShowPortfolio is false for client and admin profiles.
func (v *ProfileView) ShowPortfolio() bool {
	return v.Profile != nil && v.Profile.Role != domain.RoleClient && !v.Profile.IsAdmin
}

// ShowPaymentForm is true for an owner with a provider or supplier profile
// that is neither subscribed nor awaiting approval of a payment.
func (v *ProfileView) ShowPaymentForm() bool {
	if !v.CanEdit() {
		return false
	}
	p := v.Profile
	return p.Role != domain.RoleClient && !p.IsAdmin && !p.IsSubscribed && !p.HasPendingPayment
}

// PaymentPending is true while a submitted payment awaits approval.
func (v *ProfileView) PaymentPending() bool {
	return v.CanEdit() && v.Profile.Role != domain.RoleClient && !v.Profile.IsSubscribed && v.Profile.HasPendingPayment
}

// UpdateField submits one edited field as a partial update. The typed value
// is kept on success; on failure the draft reverts to the last saved value.
func (v *ProfileView) UpdateField(ctx context.Context, field, value string) error {
	if !v.CanEdit() {
		return domain.ErrNotOwner
	}
	patch, err := patchFor(field, value)
	if err != nil {
		return err
	}

	v.Draft[field] = value
	if err := v.backend.UpdateMe(ctx, v.store.Token(), patch); err != nil {
		v.Draft[field] = savedValue(v.Profile, field)
		v.Err = err
		v.log.Warn().Err(err).Str("field", field).Msg("profile update failed, reverted")
		return err
	}

	setSavedValue(v.Profile, field, value)
	v.Err = nil
	return nil
}

// AddProject creates a portfolio project and re-fetches the profile.
func (v *ProfileView) AddProject(ctx context.Context, in ports.ProjectInput) error {
	if !v.CanEdit() {
		return domain.ErrNotOwner
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := v.backend.AddProject(ctx, v.store.Token(), in); err != nil {
		v.Err = err
		return err
	}
	return v.Load(ctx)
}

// SubmitPayment posts the payment screenshot and re-fetches the profile so
// the pending state shows.
func (v *ProfileView) SubmitPayment(ctx context.Context, screenshotURL string) error {
	if !v.ShowPaymentForm() {
		return domain.ErrNotOwner
	}
	if err := v.backend.SubmitPayment(ctx, v.store.Token(), strings.TrimSpace(screenshotURL)); err != nil {
		v.Err = err
		return err
	}
	return v.Load(ctx)
}

// Close drops any in-flight response.
func (v *ProfileView) Close() { v.guard.Close() }

func patchFor(field, value string) (ports.ProfilePatch, error) {
	var p ports.ProfilePatch
	switch field {
	case FieldBio:
		p.Bio = &value
	case FieldPhone:
		p.Phone = &value
	case FieldCity:
		p.City = &value
	case FieldAvatarURL:
		p.AvatarURL = &value
	default:
		return p, domain.ErrUnknownField
	}
	return p, nil
}

func savedValue(p *domain.Profile, field string) string {
	switch field {
	case FieldBio:
		return p.Bio
	case FieldPhone:
		return p.Phone
	case FieldCity:
		return p.City
	case FieldAvatarURL:
		return p.AvatarURL
	}
	return ""
}

func setSavedValue(p *domain.Profile, field, value string) {
	switch field {
	case FieldBio:
		p.Bio = value
	case FieldPhone:
		p.Phone = value
	case FieldCity:
		p.City = value
	case FieldAvatarURL:
		p.AvatarURL = value
	}
}
