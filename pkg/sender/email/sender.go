// Package email delivers letters as PDF attachments through Resend.
// It stands in for the postal sender in test and staging environments.
package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
)

var (
	ErrInvalidConfig = errors.New("email: invalid configuration")
	ErrEmptyDocument = errors.New("email: document is empty")
	ErrSendFailed    = errors.New("email: failed to send letter")
)

// EmailAPI is the part of the Resend client used by Sender.
type EmailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender implements dispatch.Sender by mailing the letter.
type Sender struct {
	emails EmailAPI
	config Config
	now    func() time.Time
}

var _ dispatch.Sender = (*Sender)(nil)

// Option configures a Sender.
type Option func(*Sender)

// WithEmailAPI replaces the Resend client.
func WithEmailAPI(api EmailAPI) Option {
	return func(s *Sender) {
		if api != nil {
			s.emails = api
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Resend-backed sender.
func New(cfg Config, opts ...Option) (*Sender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: api key, sender and recipients are required", ErrInvalidConfig)
	}
	s := &Sender{
		emails: resend.NewClient(cfg.APIKey).Emails,
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send mails doc to the configured recipients.
func (s *Sender) Send(ctx context.Context, postage dispatch.Postage, reference string, doc io.Reader) (*dispatch.Response, error) {
	content, err := io.ReadAll(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", ErrSendFailed, err)
	}
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}

	from := s.config.SenderEmail
	if s.config.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      s.config.Recipients,
		Subject: fmt.Sprintf("Letter %s (%s class)", reference, postage),
		Text:    fmt.Sprintf("Letter %s is attached.\nPostage: %s\n", reference, postage),
		Attachments: []*resend.Attachment{{
			Filename:    filename(reference),
			Content:     content,
			ContentType: "application/pdf",
		}},
		Tags: []resend.Tag{
			{Name: "postage", Value: postage.String()},
		},
	}

	sent, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	return &dispatch.Response{
		NotificationID: sent.Id,
		Reference:      reference,
		Postage:        postage,
		CreatedAt:      s.now(),
	}, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)

func filename(reference string) string {
	name := unsafeFilename.ReplaceAllString(reference, "_")
	if name == "" {
		name = "letter"
	}
	return name + ".pdf"
}
