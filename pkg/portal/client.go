package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twoFactorDetail = "2FA code required"

// Client talks to the backend auth endpoints and keeps the session store in
// sync with the outcomes.
type Client struct {
	baseURL string
	http    *http.Client
	store   *Store
}

// NewClient wires an API client to a session store. httpClient may be nil.
func NewClient(baseURL string, store *Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
	}
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        Identity `json:"user"`
}

// errorBody covers both backend envelopes: the generic {"error": ...} and
// the login form's {"detail": ...}.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (e errorBody) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

// Login exchanges credentials for a token and commits the session. The
// username may be a TC kimlik number, a tax number, or an email address.
// ErrTwoFactorRequired means the caller should prompt for a one-time code
// and call Login again with the same username and password plus the code.
//
// A login response that arrives after the session already changed (logout,
// or a second login that won) is discarded rather than committed.
func (c *Client) Login(ctx context.Context, username, password, otpCode string) (Identity, error) {
	before := c.store.Snapshot().Token

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	if otpCode != "" {
		form.Set("otp_code", otpCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return Identity{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode == http.StatusUnauthorized && body.message() == twoFactorDetail {
			return Identity{}, ErrTwoFactorRequired
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Identity{}, fmt.Errorf("decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return Identity{}, fmt.Errorf("login response carried no token")
	}

	if c.store.Snapshot().Token == before {
		c.store.Set(out.User, out.AccessToken)
	}
	return out.User, nil
}

// Me refreshes the stored identity from the backend. The token is kept; only
// the profile snapshot changes.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	sess := c.store.Snapshot()
	if !sess.Authenticated() {
		return Identity{}, ErrSessionExpired
	}

	var user Identity
	if err := c.authed(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return Identity{}, err
	}
	if c.store.Snapshot().Token == sess.Token {
		c.store.Set(user, sess.Token)
	}
	return user, nil
}

// ChangePassword rotates the password. The backend revokes the presenting
// token on success, so the session is cleared and the user logs in again
// with the new password.
func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	}
	if err := c.authed(ctx, http.MethodPost, "/auth/change-password", body, nil); err != nil {
		return err
	}
	c.store.Clear()
	return nil
}

// Logout revokes the token server-side and clears the session. The local
// session is cleared even when the revocation call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.authed(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.store.Clear()
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	return nil
}

// authed performs a bearer-authenticated JSON call.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	sess := c.store.Snapshot()
	if !sess.Authenticated() {
		return ErrSessionExpired
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.message()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
