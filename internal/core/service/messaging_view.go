package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

// MessagingView is the inbox and the conversation with the active contact.
type MessagingView struct {
	Contacts []domain.Contact
	Active   *domain.Contact
	Messages []domain.Message
	Input    string

	InboxState        LoadState
	ConversationState LoadState
	Err               error
	SendErr           error

	backend ports.Backend
	store   *SessionStore
	log     zerolog.Logger
	onSent  func()

	inboxGuard RequestGuard
	convGuard  RequestGuard
}

func NewMessagingView(backend ports.Backend, store *SessionStore, log zerolog.Logger) *MessagingView {
	return &MessagingView{backend: backend, store: store, log: log}
}

// OnSent registers a hook called once per delivered message.
func (v *MessagingView) OnSent(fn func()) { v.onSent = fn }

// LoadInbox fetches the contact list. A chat target stashed by another page
// is consumed here: it is prepended when missing and becomes the active
// contact.
func (v *MessagingView) LoadInbox(ctx context.Context) error {
	if !v.store.Session().IsLoggedIn {
		v.InboxState, v.Err = StateFailed, domain.ErrNotLoggedIn
		return domain.ErrNotLoggedIn
	}
	v.InboxState = StateLoading
	reqCtx, token := v.inboxGuard.Begin(ctx)

	contacts, err := v.backend.Inbox(reqCtx, v.store.Token())
	if err != nil {
		v.inboxGuard.Apply(token, func() { v.InboxState, v.Err = StateFailed, err })
		v.log.Warn().Err(err).Msg("inbox load failed")
		return err
	}

	target, err := v.store.TakeChatTarget(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("chat target unavailable")
	}

	applied := v.inboxGuard.Apply(token, func() {
		v.Contacts = contacts
		if target != nil && !containsContact(v.Contacts, target.ID) {
			v.Contacts = append([]domain.Contact{*target}, v.Contacts...)
		}
		v.Err = nil
		if len(v.Contacts) == 0 {
			v.InboxState = StateEmpty
		} else {
			v.InboxState = StateReady
		}
	})
	if !applied {
		return domain.ErrStaleResponse
	}
	if target != nil {
		return v.Select(ctx, target.ID)
	}
	return nil
}

// Select makes contactID the active contact and replaces the message list
// with the full conversation. Re-selecting the active contact refetches.
func (v *MessagingView) Select(ctx context.Context, contactID int64) error {
	var contact *domain.Contact
	for i := range v.Contacts {
		if v.Contacts[i].ID == contactID {
			contact = &v.Contacts[i]
			break
		}
	}
	if contact == nil {
		// Opening a conversation from a link to someone not yet in the inbox.
		c := domain.Contact{ID: contactID}
		if p, err := v.backend.User(ctx, contactID); err == nil {
			c = domain.Contact{ID: p.ID, Username: p.Username, ShopName: p.ShopName, AvatarURL: p.AvatarURL}
		}
		v.Contacts = append([]domain.Contact{c}, v.Contacts...)
		if v.InboxState == StateEmpty {
			v.InboxState = StateReady
		}
		contact = &v.Contacts[0]
	}

	active := *contact
	v.Active = &active
	v.Messages = nil
	v.ConversationState = StateLoading
	reqCtx, token := v.convGuard.Begin(ctx)

	msgs, err := v.backend.Conversation(reqCtx, v.store.Token(), contactID)
	applied := v.convGuard.Apply(token, func() {
		if err != nil {
			v.ConversationState, v.Err = StateFailed, err
			return
		}
		v.Messages = msgs
		if len(msgs) == 0 {
			v.ConversationState = StateEmpty
		} else {
			v.ConversationState = StateReady
		}
	})
	if !applied {
		return domain.ErrStaleResponse
	}
	if err != nil {
		v.log.Warn().Err(err).Int64("contact_id", contactID).Msg("conversation load failed")
	}
	return err
}

// Send posts text to the active contact. Blank text or no active contact is
// a no-op that issues no request. On success the returned message is
// appended and the input cleared; on failure the input is kept for a retry.
func (v *MessagingView) Send(ctx context.Context, text string) (bool, error) {
	v.Input = text
	if strings.TrimSpace(text) == "" || v.Active == nil {
		return false, nil
	}

	msg, err := v.backend.SendMessage(ctx, v.store.Token(), v.Active.ID, text)
	if err != nil {
		v.SendErr = err
		v.log.Warn().Err(err).Int64("receiver_id", v.Active.ID).Msg("send failed")
		return false, err
	}
	if msg == nil {
		msg = &domain.Message{SenderID: v.store.Session().UserID, ReceiverID: v.Active.ID, Content: text}
	}

	v.Messages = append(v.Messages, *msg)
	v.ConversationState = StateReady
	v.Input = ""
	v.SendErr = nil
	if v.onSent != nil {
		v.onSent()
	}
	return true, nil
}

// IsMine reports whether m was sent by the session user.
func (v *MessagingView) IsMine(m domain.Message) bool {
	uid := v.store.Session().UserID
	return uid != 0 && m.SenderID == uid
}

// Close drops in-flight responses.
func (v *MessagingView) Close() {
	v.inboxGuard.Close()
	v.convGuard.Close()
}

// SendDirect is the compose-modal send used from the feed: no inbox state,
// same blank-text rule.
func SendDirect(ctx context.Context, backend ports.Backend, store *SessionStore, receiverID int64, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if !store.Session().IsLoggedIn {
		return nil, domain.ErrNotLoggedIn
	}
	return backend.SendMessage(ctx, store.Token(), receiverID, text)
}

func containsContact(contacts []domain.Contact, id int64) bool {
	for _, c := range contacts {
		if c.ID == id {
			return true
		}
	}
	return false
}
