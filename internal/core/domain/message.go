package domain

// Contact is an inbox entry: a counterpart the session user has exchanged
// messages with.
type Contact struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	ShopName  string `json:"shop_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName prefers the shop name suppliers register with.
func (c Contact) DisplayName() string {
	return displayName(c.ShopName, c.Username)
}

// Message is immutable once sent.
type Message struct {
	ID         int64     `json:"id,omitempty"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Payment is a subscription payment awaiting (or past) admin approval.
type Payment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	ScreenshotURL string    `json:"screenshot_url"`
	Approved      bool      `json:"approved"`
	CreatedAt     Timestamp `json:"created_at"`
}
