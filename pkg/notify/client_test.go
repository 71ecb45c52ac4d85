package notify_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/notify"
)

const (
	serviceID = "26785a09-ab16-4eb0-8407-a37497a57506"
	secret    = "3d844edf-8d35-48ac-975b-e847b4f122b0"
	apiKey    = "letterpress_test-" + serviceID + "-" + secret
	baseURL   = "https://notify.test"
	letterURL = baseURL + notify.LetterPath
)

var issuedAt = time.Date(2025, time.August, 4, 9, 0, 0, 0, time.UTC)

func newClient(t *testing.T, cfg notify.Config) (*notify.Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	cfg.APIKey = apiKey
	cfg.BaseURL = baseURL
	c, err := notify.New(cfg,
		notify.WithHTTPClient(&http.Client{Transport: mt}),
		notify.WithClock(func() time.Time { return issuedAt }),
	)
	require.NoError(t, err)
	return c, mt
}

func TestParseAPIKey(t *testing.T) {
	t.Parallel()

	sid, sec, err := notify.ParseAPIKey(apiKey)
	require.NoError(t, err)
	require.Equal(t, serviceID, sid)
	require.Equal(t, secret, sec)

	for _, key := range []string{"", "short", serviceID + secret, "name_" + serviceID + "_" + secret} {
		_, _, err := notify.ParseAPIKey(key)
		require.ErrorIs(t, err, notify.ErrInvalidAPIKey, key)
	}

	_, err = notify.New(notify.Config{APIKey: "nope"})
	require.ErrorIs(t, err, notify.ErrInvalidAPIKey)
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	c, mt := newClient(t, notify.Config{})
	mt.RegisterResponder(http.MethodPost, letterURL, func(req *http.Request) (*http.Response, error) {
		auth := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(auth, claims, func(*jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || claims.Issuer != serviceID || !claims.IssuedAt.Equal(issuedAt) {
			return httpmock.NewStringResponse(http.StatusForbidden, `{"errors":[{"error":"AuthError","message":"bad token"}]}`), nil
		}

		var body struct {
			Reference string `json:"reference"`
			Content   string `json:"content"`
			Postage   string `json:"postage"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		pdf, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil || string(pdf) != "%PDF-1.4 letter" || body.Reference != "CH/000123" || body.Postage != "first" {
			return httpmock.NewStringResponse(http.StatusBadRequest, `{"errors":[{"error":"BadRequestError","message":"unexpected body"}]}`), nil
		}
		return httpmock.NewJsonResponse(http.StatusCreated, map[string]string{
			"id":        "740e5834-3a29-46b4-9a6f-16142fde533a",
			"reference": body.Reference,
			"postage":   body.Postage,
		})
	})

	resp, err := c.Send(context.Background(), dispatch.PostageFirst, "CH/000123", strings.NewReader("%PDF-1.4 letter"))
	require.NoError(t, err)
	require.Equal(t, "740e5834-3a29-46b4-9a6f-16142fde533a", resp.NotificationID)
	require.Equal(t, "CH/000123", resp.Reference)
	require.Equal(t, dispatch.PostageFirst, resp.Postage)
	require.Equal(t, issuedAt, resp.CreatedAt)
	require.Equal(t, 1, mt.GetTotalCallCount())
}

func TestClient_SendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{"validation", http.StatusBadRequest, `{"status_code":400,"errors":[{"error":"ValidationError","message":"postage invalid"}]}`, notify.ErrRejected, "postage invalid"},
		{"auth", http.StatusForbidden, `{"errors":[{"error":"AuthError","message":"Invalid token"}]}`, notify.ErrUnauthorized, "Invalid token"},
		{"rate limit", http.StatusTooManyRequests, `{"errors":[{"error":"RateLimitError","message":"Exceeded"}]}`, notify.ErrRateLimited, "Exceeded"},
		{"server", http.StatusInternalServerError, `oops`, notify.ErrRequestFailed, "status 500"},
		{"malformed", http.StatusCreated, `{`, notify.ErrBadResponse, ""},
		{"no id", http.StatusCreated, `{"reference":"R"}`, notify.ErrBadResponse, "missing notification id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, mt := newClient(t, notify.Config{})
			mt.RegisterResponder(http.MethodPost, letterURL, httpmock.NewStringResponder(tt.status, tt.body))

			resp, err := c.Send(context.Background(), dispatch.PostageSecond, "R", strings.NewReader("%PDF"))
			require.Nil(t, resp)
			require.ErrorIs(t, err, tt.want)
			require.Contains(t, err.Error(), tt.msg)
			require.Equal(t, 1, mt.GetTotalCallCount())
		})
	}
}

func TestClient_Retries(t *testing.T) {
	t.Parallel()

	t.Run("off by default", func(t *testing.T) {
		t.Parallel()

		c, mt := newClient(t, notify.Config{})
		mt.RegisterResponder(http.MethodPost, letterURL, httpmock.NewStringResponder(http.StatusBadGateway, ``))

		_, err := c.Send(context.Background(), dispatch.PostageSecond, "R", strings.NewReader("%PDF"))
		require.ErrorIs(t, err, notify.ErrRequestFailed)
		require.Equal(t, 1, mt.GetTotalCallCount())
	})

	t.Run("configured", func(t *testing.T) {
		t.Parallel()

		c, mt := newClient(t, notify.Config{RetryMax: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})
		mt.RegisterResponder(http.MethodPost, letterURL, httpmock.NewStringResponder(http.StatusBadGateway, ``))

		_, err := c.Send(context.Background(), dispatch.PostageSecond, "R", strings.NewReader("%PDF"))
		require.ErrorIs(t, err, notify.ErrRequestFailed)
		require.Equal(t, 3, mt.GetTotalCallCount())
	})
}

func TestClient_SendInput(t *testing.T) {
	t.Parallel()

	c, mt := newClient(t, notify.Config{})

	_, err := c.Send(context.Background(), dispatch.PostageSecond, "", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, notify.ErrEmptyReference)

	_, err = c.Send(context.Background(), dispatch.PostageSecond, "R", failingReader{})
	require.ErrorIs(t, err, notify.ErrRequestFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Send(ctx, dispatch.PostageSecond, "R", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, mt.GetTotalCallCount())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
