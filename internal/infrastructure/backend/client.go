// Package backend is the typed HTTP client for the marketplace REST API.
//
// Every call returns either its decoded result or a *domain.APIError; views
// never see raw transport errors or status codes. Collection endpoints are
// normalised to an empty slice when the body is not a JSON array.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Observer receives one callback per completed call. outcome is "ok" or the
// domain.ErrorKind of the failure.
type Observer func(endpoint, outcome string, elapsed time.Duration)

// Config captures the settings for the backend client.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Observer Observer
}

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	log      zerolog.Logger
	observer Observer
}

var _ ports.Backend = (*Client)(nil)

// New returns a Client for cfg.BaseURL. A default timeout is applied when
// none is provided.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log,
		observer: cfg.Observer,
	}
}

// BaseURL is the API origin the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping reports whether the API answers at all; any HTTP status counts as up.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, "ping", http.MethodGet, "/", "", nil, nil)
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Kind != domain.KindUnreachable {
		return nil
	}
	return err
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	var out ports.AuthResult
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	var out ports.AuthResult
	if err := c.do(ctx, "auth.register", http.MethodPost, "/auth/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Feed ──────────────────────────────────────────────────────────────────────

func (c *Client) Feed(ctx context.Context) ([]domain.FeedRecord, error) {
	return list[domain.FeedRecord](ctx, c, "feed", "/feed/", "")
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (c *Client) Me(ctx context.Context, token string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, "users.me", http.MethodGet, "/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id int64) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, "users.get", http.MethodGet, "/users/"+strconv.FormatInt(id, 10), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, token string, patch ports.ProfilePatch) error {
	return c.do(ctx, "users.update_me", http.MethodPatch, "/users/me", token, patch, nil)
}

func (c *Client) AddProject(ctx context.Context, token string, in ports.ProjectInput) error {
	return c.do(ctx, "users.add_project", http.MethodPost, "/users/me/projects", token, in, nil)
}

func (c *Client) SubmitPayment(ctx context.Context, token, screenshotURL string) error {
	body := map[string]string{"screenshot_url": screenshotURL}
	return c.do(ctx, "users.pay", http.MethodPost, "/users/me/pay", token, body, nil)
}

// ── Admin ─────────────────────────────────────────────────────────────────────

func (c *Client) AdminUsers(ctx context.Context, token string) ([]domain.AdminUser, error) {
	return list[domain.AdminUser](ctx, c, "admin.users", "/users/admin/all", token)
}

func (c *Client) AdminPayments(ctx context.Context, token string) ([]domain.Payment, error) {
	return list[domain.Payment](ctx, c, "admin.payments", "/users/admin/payments", token)
}

func (c *Client) ToggleUserStatus(ctx context.Context, token string, userID int64) error {
	path := "/users/admin/toggle-status/" + strconv.FormatInt(userID, 10)
	return c.do(ctx, "admin.toggle_status", http.MethodPost, path, token, nil, nil)
}

func (c *Client) ApprovePayment(ctx context.Context, token string, paymentID int64) error {
	path := "/users/admin/payments/" + strconv.FormatInt(paymentID, 10) + "/approve"
	return c.do(ctx, "admin.approve_payment", http.MethodPost, path, token, nil, nil)
}

// ── Messages ──────────────────────────────────────────────────────────────────

func (c *Client) Inbox(ctx context.Context, token string) ([]domain.Contact, error) {
	return list[domain.Contact](ctx, c, "messages.inbox", "/messages/inbox", token)
}

func (c *Client) Conversation(ctx context.Context, token string, contactID int64) ([]domain.Message, error) {
	path := "/messages/conversation/" + strconv.FormatInt(contactID, 10)
	return list[domain.Message](ctx, c, "messages.conversation", path, token)
}

func (c *Client) SendMessage(ctx context.Context, token string, receiverID int64, content string) (*domain.Message, error) {
	body := struct {
		ReceiverID int64  `json:"receiver_id"`
		Content    string `json:"content"`
	}{receiverID, content}

	// An empty or null body leaves out nil.
	var out *domain.Message
	if err := c.do(ctx, "messages.send", http.MethodPost, "/messages/", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Transport ─────────────────────────────────────────────────────────────────

// list fetches a collection. A body that is not a JSON array, or whose
// elements do not decode, yields an empty collection rather than an error.
func list[T any](ctx context.Context, c *Client, endpoint, path, token string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, endpoint, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}

	out := []T{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c.log.Warn().Str("endpoint", endpoint).Msg("expected a JSON array, treating as empty")
		return out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("undecodable collection, treating as empty")
		return []T{}, nil
	}
	return out, nil
}

// errorBody is the backend's error envelope. detail is a string for
// handled errors and a list of objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer == nil {
			return
		}
		outcome := "ok"
		var apiErr *domain.APIError
		switch {
		case errors.As(err, &apiErr):
			outcome = string(apiErr.Kind)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			outcome = "canceled"
		case err != nil:
			outcome = "error"
		}
		c.observer(endpoint, outcome, time.Since(start))
	}()

	var body io.Reader
	if in != nil {
		b, mErr := json.Marshal(in)
		if mErr != nil {
			return fmt.Errorf("%s: encode request: %w", endpoint, mErr)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.APIError{Kind: domain.KindUnreachable, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.APIError{Kind: domain.KindUnreachable, Status: resp.StatusCode, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{
			Kind:     domain.KindFromStatus(resp.StatusCode),
			Status:   resp.StatusCode,
			Endpoint: endpoint,
			Detail:   detailOf(payload),
		}
		c.log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("detail", apiErr.Detail).Msg("backend rejected request")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		if raw, ok := out.(*json.RawMessage); ok {
			*raw = json.RawMessage("null")
		}
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.APIError{Kind: domain.KindMalformed, Status: resp.StatusCode, Endpoint: endpoint, Err: err}
	}
	return nil
}

// detailOf extracts a human-readable message from an error body.
func detailOf(payload []byte) string {
	var eb errorBody
	if err := json.Unmarshal(payload, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
