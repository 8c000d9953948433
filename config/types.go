package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the root configuration for the resilient HTTP client.
// The embedded koanf.Koanf instance allows for flexible access to
// additional custom keys not explicitly defined in the struct.
type Config struct {
	Client ClientConfig `koanf:"client" json:"client" yaml:"client" toml:"client" mapstructure:"client"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log" toml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for flexible access to custom keys
	k *koanf.Koanf `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// ClientConfig holds the HTTP client settings.
type ClientConfig struct {
	BaseURL string            `koanf:"baseurl" json:"baseurl" yaml:"baseurl" toml:"baseurl" mapstructure:"baseurl" validate:"omitempty,url"`
	Timeout time.Duration     `koanf:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout"`
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers" toml:"headers" mapstructure:"headers"`
	Auth    AuthConfig        `koanf:"auth" json:"auth" yaml:"auth" toml:"auth" mapstructure:"auth"`
	Retry   RetryConfig       `koanf:"retry" json:"retry" yaml:"retry" toml:"retry" mapstructure:"retry"`
	Trace   TraceConfig       `koanf:"trace" json:"trace" yaml:"trace" toml:"trace" mapstructure:"trace"`
}

// AuthConfig holds basic authentication credentials applied to every request.
type AuthConfig struct {
	Username string `koanf:"username" json:"username" yaml:"username" toml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" toml:"password" mapstructure:"password"`
}

// RetryConfig holds retry policy settings.
type RetryConfig struct {
	// MaxAttempts is the total transport-call budget for idempotent
	// requests, the first attempt included.
	MaxAttempts int `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" toml:"maxattempts" mapstructure:"maxattempts" validate:"min=1"`

	// Extra adds status codes to the default retriable set.
	Extra []StatusRule `koanf:"extra" json:"extra" yaml:"extra" toml:"extra" mapstructure:"extra" validate:"dive"`

	// Disable removes status codes from the default retriable set.
	Disable []int `koanf:"disable" json:"disable" yaml:"disable" toml:"disable" mapstructure:"disable" validate:"dive,retriable_status"`
}

// StatusRule marks one status code as retriable, with the reason used in
// retry logs and metrics.
type StatusRule struct {
	Code   int    `koanf:"code" json:"code" yaml:"code" toml:"code" mapstructure:"code" validate:"retriable_status"`
	Reason string `koanf:"reason" json:"reason" yaml:"reason" toml:"reason" mapstructure:"reason" validate:"required"`
}

// TraceConfig holds request-ID propagation settings.
type TraceConfig struct {
	// Header overrides the default X-Request-ID header name.
	Header string `koanf:"header" json:"header" yaml:"header" toml:"header" mapstructure:"header"`

	// Disabled turns off request-ID stamping entirely.
	Disabled bool `koanf:"disabled" json:"disabled" yaml:"disabled" toml:"disabled" mapstructure:"disabled"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" toml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" toml:"pretty" mapstructure:"pretty"`
}
