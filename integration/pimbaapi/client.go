package pimbaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Config provides environment-based configuration for the business API client.
type Config struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

// Client calls the tenant-scoped business API with the session's bearer
// token. The dashboard never talks to the database directly; everything goes
// through this client.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a business API client. A nil logger is replaced with a discard
// logger.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("pimbaapi: base URL is required")
	}
	if log == nil {
		log = logger.NewDiscard()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(logger.Component("pimbaapi")),
	}, nil
}

// meResponse mirrors the API's /users/me payload. The API names the trainer
// role "personal" and the trainee role "aluno"; both spellings are accepted.
type meResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	SubjectID  string `json:"firebase_uid"`
	PersonalID int64  `json:"personal_id"`
}

// WhoAmI resolves the authenticated user's claims, including role and tenant
// scope, from the business API.
func (c *Client) WhoAmI(ctx context.Context, token string) (session.Claims, error) {
	var me meResponse
	if err := c.Do(ctx, http.MethodGet, "/users/me", token, nil, &me); err != nil {
		return session.Claims{}, err
	}

	claims := session.Claims{
		UserID:   me.SubjectID,
		Name:     me.Name,
		Email:    me.Email,
		Role:     mapRole(me.Role),
		TenantID: me.PersonalID,
	}
	if claims.UserID == "" {
		claims.UserID = fmt.Sprintf("user-%d", me.ID)
	}
	return claims, nil
}

// Check implements session.RemoteChecker over the lightweight /users/me
// endpoint: 200 means the token is still honored, 401/403 is explicit
// rejection, anything else is indeterminate and must not invalidate.
func (c *Client) Check(ctx context.Context, token string) error {
	err := c.Do(ctx, http.MethodGet, "/users/me", token, nil, nil)
	if err == nil || errors.Is(err, session.ErrTokenRejected) {
		return err
	}
	return errors.Join(ErrUnreachable, err)
}

// Do performs an authenticated request. body and out may be nil. Status
// 401/403 maps to session.ErrTokenRejected; other non-2xx statuses map to
// ErrRequestFailed with the status attached.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("pimbaapi: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("pimbaapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", session.ErrTokenRejected, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s returned %d", ErrRequestFailed, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pimbaapi: decode response: %w", err)
	}
	return nil
}

func mapRole(role string) session.Role {
	switch role {
	case "admin":
		return session.RoleAdmin
	case "personal", "trainer":
		return session.RoleTrainer
	case "aluno", "trainee":
		return session.RoleTrainee
	default:
		return session.Role(role)
	}
}
