package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
)

// LetterPath is the precompiled letter endpoint.
const LetterPath = "/v2/notifications/letter"

const (
	uuidLength  = 36
	userAgent   = "letterpress-notify-client"
	maxRespBody = 1 << 20
)

// Client submits precompiled letters.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	serviceID string
	secret    []byte
	now       func() time.Time
	logger    *slog.Logger
}

var _ dispatch.Sender = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// WithClock overrides the token issue time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	serviceID, secret, err := ParseAPIKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = max(cfg.RetryMax, 0)
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	// Non-2xx responses are decoded by the caller rather than turned into a
	// generic "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		http:      rc,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		serviceID: serviceID,
		secret:    []byte(secret),
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = c.logger
	return c, nil
}

// ParseAPIKey splits a Notify API key into service ID and secret.
func ParseAPIKey(key string) (serviceID, secret string, err error) {
	// {name}-{service_id}-{secret}: both IDs are UUIDs.
	if len(key) < 2*uuidLength+1 {
		return "", "", ErrInvalidAPIKey
	}
	secret = key[len(key)-uuidLength:]
	serviceID = key[len(key)-2*uuidLength-1 : len(key)-uuidLength-1]
	if key[len(key)-uuidLength-1] != '-' {
		return "", "", ErrInvalidAPIKey
	}
	return serviceID, secret, nil
}

type letterRequest struct {
	Reference string `json:"reference"`
	Content   string `json:"content"`
	Postage   string `json:"postage,omitempty"`
}

type letterResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Postage   string `json:"postage"`
}

// Send uploads doc as a precompiled letter. It implements dispatch.Sender.
func (c *Client) Send(ctx context.Context, postage dispatch.Postage, reference string, doc io.Reader) (*dispatch.Response, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", ErrRequestFailed, err)
	}

	payload, err := json.Marshal(letterRequest{
		Reference: reference,
		Content:   base64.StdEncoding.EncodeToString(data),
		Postage:   postage.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var out letterResponse
	if err := c.post(ctx, LetterPath, payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: missing notification id", ErrBadResponse)
	}

	resp := &dispatch.Response{
		NotificationID: out.ID,
		Reference:      out.Reference,
		Postage:        postage,
		CreatedAt:      c.now(),
	}
	if out.Postage != "" {
		if p, err := dispatch.ParsePostage(out.Postage); err == nil {
			resp.Postage = p
		}
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, p string, body []byte, out any) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// A response exhausted by retries comes back together with an error;
	// its status is more useful than the error.
	resp, err := c.http.Do(req)
	if resp == nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRespBody))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env struct {
			Errors []ErrorItem `json:"errors"`
		}
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Errors = env.Errors
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// token issues a request token. Notify checks iss and rejects an iat more
// than 30 seconds old, so tokens are never cached.
func (c *Client) token() (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   c.serviceID,
		IssuedAt: jwt.NewNumericDate(c.now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", ErrRequestFailed, err)
	}
	return signed, nil
}
