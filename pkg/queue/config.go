package queue

import "github.com/riverqueue/river"

// Config holds queue configuration.
type Config struct {
	Enabled     bool   `env:"QUEUE_ENABLED" envDefault:"false"`
	Name        string `env:"QUEUE_NAME" envDefault:"letters"`
	MaxWorkers  int    `env:"QUEUE_MAX_WORKERS" envDefault:"10"`
	MaxAttempts int    `env:"QUEUE_MAX_ATTEMPTS" envDefault:"1"`
}

const (
	defaultMaxWorkers  = 10
	defaultMaxAttempts = 1
)

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = river.QueueDefault
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = defaultMaxWorkers
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
}
