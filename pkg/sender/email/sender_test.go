package email_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/sender/email"
)

type MockEmailAPI struct {
	mock.Mock
}

func (m *MockEmailAPI) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*resend.SendEmailResponse)
	return resp, args.Error(1)
}

var cfg = email.Config{
	APIKey:      "re_test",
	SenderEmail: "letters@example.com",
	SenderName:  "Letterpress",
	Recipients:  []string{"post-room@example.com"},
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := email.New(email.Config{APIKey: "re_test"})
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	s, err := email.New(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 4, 9, 0, 0, 0, time.UTC)
	api := &MockEmailAPI{}
	api.On("SendWithContext", mock.Anything, mock.MatchedBy(func(r *resend.SendEmailRequest) bool {
		if len(r.Attachments) != 1 {
			return false
		}
		a := r.Attachments[0]
		return r.From == "Letterpress <letters@example.com>" &&
			r.To[0] == "post-room@example.com" &&
			strings.Contains(r.Subject, "CH/000123") &&
			a.Filename == "CH_000123.pdf" &&
			a.ContentType == "application/pdf" &&
			string(a.Content) == "%PDF-1.4"
	})).Return(&resend.SendEmailResponse{Id: "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}, nil).Once()

	s, err := email.New(cfg, email.WithEmailAPI(api), email.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	resp, err := s.Send(context.Background(), dispatch.PostageFirst, "CH/000123", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", resp.NotificationID)
	require.Equal(t, dispatch.PostageFirst, resp.Postage)
	require.Equal(t, now, resp.CreatedAt)
	api.AssertExpectations(t)
}

func TestSender_SendErrors(t *testing.T) {
	t.Parallel()

	api := &MockEmailAPI{}
	api.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("422 invalid from")).Once()

	s, err := email.New(cfg, email.WithEmailAPI(api))
	require.NoError(t, err)

	_, err = s.Send(context.Background(), dispatch.PostageSecond, "R", strings.NewReader(""))
	require.ErrorIs(t, err, email.ErrEmptyDocument)

	_, err = s.Send(context.Background(), dispatch.PostageSecond, "R", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, email.ErrSendFailed)
	require.Contains(t, err.Error(), "invalid from")
	api.AssertExpectations(t)
}
