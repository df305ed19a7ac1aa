package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/naveenspark/storefront/pkg/domain"
)

const (
	loginPath   = "/api/users/login"
	profilePath = "/api/users/profile"
)

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the payload for the profile endpoint. An empty Password
// leaves the stored password unchanged.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Client is the storefront account API client. It never retries: each
// call is exactly one HTTP exchange.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger routes request logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a session record.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	err := c.doRequest(ctx, http.MethodPost, loginPath, "", LoginRequest{Email: email, Password: password}, &rec)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", classify(err, InvalidCredentials))
	}
	return &rec, nil
}

// UpdateProfile changes the authenticated user's name, email and optionally
// password, returning the refreshed session record.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate, token string) (*domain.SessionRecord, error) {
	if token == "" {
		return nil, fmt.Errorf("client.UpdateProfile: %w", &AuthError{Reason: Unauthorized, Message: "No token provided"})
	}
	if tokenExpired(token, c.now()) {
		return nil, fmt.Errorf("client.UpdateProfile: %w", &AuthError{Reason: Unauthorized, Message: "Your session has expired. Please log in again."})
	}
	var rec domain.SessionRecord
	if err := c.doRequest(ctx, http.MethodPut, profilePath, token, upd, &rec); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", classify(err, Unauthorized))
	}
	return &rec, nil
}

// classify maps a raw request error onto the error taxonomy. on401 picks
// the auth reason a 401 means for the endpoint.
func classify(err error, on401 AuthReason) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		return &AuthError{Reason: on401, Message: httpErr.Message, Err: httpErr}
	case http.StatusForbidden:
		return &AuthError{Reason: Unauthorized, Message: httpErr.Message, Err: httpErr}
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return &ValidationError{Message: httpErr.Message, Err: httpErr}
	}
	return err
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that do not parse as JWTs are opaque to the client and never
// considered expired here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	c.logger.DebugContext(ctx, "request done", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "elapsed", c.now().Sub(start))

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
