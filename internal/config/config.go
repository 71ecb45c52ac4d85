// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/letterpress/internal/server"
	"github.com/dmitrymomot/letterpress/pkg/db"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/notify"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
	"github.com/dmitrymomot/letterpress/pkg/queue"
	"github.com/dmitrymomot/letterpress/pkg/sender/email"
	"github.com/dmitrymomot/letterpress/pkg/storage"
)

// Sender kinds.
const (
	SenderNotify = "notify"
	SenderEmail  = "email"
)

// ErrInvalid is returned for inconsistent configuration.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete service configuration.
type Config struct {
	// SenderKind selects the letter delivery channel.
	SenderKind string `env:"SENDER_KIND" envDefault:"notify"`
	// BundleDir overrides the embedded template bundle with a directory.
	BundleDir string `env:"BUNDLE_DIR"`
	TimeZone  string `env:"LETTER_TIME_ZONE" envDefault:"Europe/London"`

	Log     logger.Config
	Sentry  logger.SentryConfig
	HTTP    server.Config
	DB      db.Config
	Storage storage.Config
	Notify  notify.Config
	Email   email.Config
	PDF     pdf.Config
	Queue   queue.Config
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-section requirements.
func (c Config) Validate() error {
	var errs []error
	switch c.SenderKind {
	case SenderNotify:
		if !c.Notify.Enabled() {
			errs = append(errs, errors.New("NOTIFY_API_KEY is required for the notify sender"))
		}
	case SenderEmail:
		if !c.Email.Enabled() {
			errs = append(errs, errors.New("RESEND_API_KEY, RESEND_FROM_EMAIL and EMAIL_RECIPIENTS are required for the email sender"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SENDER_KIND %q", c.SenderKind))
	}
	if c.Queue.Enabled && !c.DB.Enabled() {
		errs = append(errs, errors.New("QUEUE_ENABLED requires DATABASE_CONN_URL"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}
