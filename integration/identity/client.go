package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Config provides environment-based configuration for the identity client.
type Config struct {
	// BaseURL of the identity provider's REST surface.
	BaseURL string `env:"IDENTITY_BASE_URL" envDefault:""`
	// APIKey authorizes requests to the provider.
	APIKey string `env:"IDENTITY_API_KEY" envDefault:""`
	// Timeout bounds each provider call.
	Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"5s"`
}

// Client talks to the external identity provider over its REST API. The
// provider's error taxonomy (EMAIL_NOT_FOUND, INVALID_PASSWORD,
// USER_DISABLED) is mapped onto this package's sentinel errors at the
// boundary; raw provider codes never escape.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates an identity client. A nil logger is replaced with a
// discard logger.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity: base URL is required")
	}
	if log == nil {
		log = logger.NewDiscard()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(logger.Component("identity")),
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken     string `json:"idToken"`
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Disabled    bool   `json:"disabled"`
	} `json:"users"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword implements Provider.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, Claims, error) {
	req := signInRequest{Email: email, Password: password, ReturnSecureToken: true}

	var resp signInResponse
	if err := c.post(ctx, "/v1/accounts:signInWithPassword", req, &resp); err != nil {
		return "", Claims{}, err
	}

	return resp.IDToken, Claims{
		SubjectID: resp.LocalID,
		Email:     resp.Email,
		Name:      resp.DisplayName,
	}, nil
}

// VerifyToken implements Provider.
func (c *Client) VerifyToken(ctx context.Context, token string) (Claims, error) {
	req := lookupRequest{IDToken: token}

	var resp lookupResponse
	if err := c.post(ctx, "/v1/accounts:lookup", req, &resp); err != nil {
		return Claims{}, err
	}

	if len(resp.Users) == 0 {
		return Claims{}, ErrInvalidToken
	}

	user := resp.Users[0]
	if user.Disabled {
		return Claims{}, ErrUserDisabled
	}

	return Claims{
		SubjectID: user.LocalID,
		Email:     user.Email,
		Name:      user.DisplayName,
	}, nil
}

// Check adapts the client to the session.RemoteChecker contract: explicit
// token rejection maps to session.ErrTokenRejected, connectivity failures
// pass through so the validator can fail open.
func (c *Client) Check(ctx context.Context, token string) error {
	_, err := c.VerifyToken(ctx, token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserDisabled):
		return fmt.Errorf("%w: %w", session.ErrTokenRejected, err)
	default:
		return err
	}
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("identity: marshal request: %w", err)
	}

	url := c.baseURL + path
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity: decode response: %w", err)
	}
	return nil
}

// decodeError maps the provider's error codes onto sentinel errors.
func (c *Client) decodeError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode)
	}

	switch body.Error.Message {
	case "EMAIL_NOT_FOUND":
		return ErrEmailNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return ErrInvalidPassword
	case "USER_DISABLED":
		return ErrUserDisabled
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED":
		return ErrInvalidToken
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s", ErrUnavailable, body.Error.Message)
		}
		c.log.Warn("unmapped identity provider error", slog.String("code", body.Error.Message))
		return fmt.Errorf("%w: %s", ErrInvalidToken, body.Error.Message)
	}
}
