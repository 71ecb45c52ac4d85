package email

// Config holds the e-mail sender configuration.
// Letters are delivered to a fixed mailbox rather than the postal address.
type Config struct {
	APIKey      string   `env:"RESEND_API_KEY"`
	SenderEmail string   `env:"RESEND_FROM_EMAIL"`
	SenderName  string   `env:"RESEND_FROM_NAME" envDefault:"Letterpress"`
	Recipients  []string `env:"EMAIL_RECIPIENTS" envSeparator:","`
}

// Enabled reports whether the sender can deliver.
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.SenderEmail != "" && len(c.Recipients) > 0
}
