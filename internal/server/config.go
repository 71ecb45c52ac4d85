package server

import "time"

// Config holds HTTP host configuration.
type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// RequestTimeout bounds letter production and delivery per request.
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"50s"`
	MaxBodyBytes   int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`

	// AuthSecret enables HS256 bearer authentication of the letter API.
	AuthSecret string `env:"HTTP_AUTH_SECRET"`
	AuthIssuer string `env:"HTTP_AUTH_ISSUER"`
}

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 30 * time.Second
	defaultMaxBodyBytes    = 1 << 20
)
