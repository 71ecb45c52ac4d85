package notify

import "time"

// DefaultBaseURL is the production Notify API.
const DefaultBaseURL = "https://api.notifications.service.gov.uk"

// Config holds Notify client configuration.
type Config struct {
	// APIKey has the form {key_name}-{service_id}-{secret_key}.
	APIKey  string        `env:"NOTIFY_API_KEY"`
	BaseURL string        `env:"NOTIFY_BASE_URL" envDefault:"https://api.notifications.service.gov.uk"`
	Timeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"30s"`
	// RetryMax is the number of retries on transport errors and 5xx responses.
	RetryMax     int           `env:"NOTIFY_RETRY_MAX" envDefault:"0"`
	RetryWaitMin time.Duration `env:"NOTIFY_RETRY_WAIT_MIN" envDefault:"1s"`
	RetryWaitMax time.Duration `env:"NOTIFY_RETRY_WAIT_MAX" envDefault:"10s"`
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool { return c.APIKey != "" }
