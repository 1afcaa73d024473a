package config

import (
	"net"
	"strconv"
	"time"
)

// Defaults applied before the config file, environment and flags.
const (
	DefaultSecret    = "sk_prod_123456"
	DefaultPort      = 3000
	DefaultHost      = "0.0.0.0"
	DefaultHeader    = "X-Super-Signature"
	DefaultMaxBody   = ByteSize(10 * 1024 * 1024)
	DefaultColor     = "auto"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// EnvPrefix is the prefix of environment overrides, e.g. HOOKSCOPE_SECRET.
const EnvPrefix = "hookscope"

// Config represents the complete hookscope configuration.
// It is built once at startup and never modified afterwards.
type Config struct {
	Secret          string   `yaml:"secret" envconfig:"SECRET"`
	Port            uint16   `yaml:"port" envconfig:"PORT"`
	Host            string   `yaml:"host" envconfig:"HOST"`
	SignatureHeader string   `yaml:"signature_header" envconfig:"SIGNATURE_HEADER"`
	MaxBodySize     ByteSize `yaml:"max_body_size" envconfig:"MAX_BODY_SIZE"`

	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`

	Color     string `yaml:"color" envconfig:"COLOR"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// Source is the config file the values were read from, if any, and
	// Fingerprint its BLAKE3 digest as read from disk.
	Source      string `yaml:"-" ignored:"true"`
	Fingerprint string `yaml:"-" ignored:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Secret:          DefaultSecret,
		Port:            DefaultPort,
		Host:            DefaultHost,
		SignatureHeader: DefaultHeader,
		MaxBodySize:     DefaultMaxBody,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		Color:           DefaultColor,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// SecretBytes returns a copy of the HMAC key.
func (c Config) SecretBytes() []byte {
	return []byte(c.Secret)
}

// Overrides holds values given on the command line. Nil fields were not set.
type Overrides struct {
	Secret          *string
	Port            *uint16
	Host            *string
	SignatureHeader *string
	MaxBodySize     *ByteSize
	Color           *string
	LogLevel        *string
	LogFormat       *string
}

func (o Overrides) apply(c *Config) {
	if o.Secret != nil {
		c.Secret = *o.Secret
	}
	if o.Port != nil {
		c.Port = *o.Port
	}
	if o.Host != nil {
		c.Host = *o.Host
	}
	if o.SignatureHeader != nil {
		c.SignatureHeader = *o.SignatureHeader
	}
	if o.MaxBodySize != nil {
		c.MaxBodySize = *o.MaxBodySize
	}
	if o.Color != nil {
		c.Color = *o.Color
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogFormat != nil {
		c.LogFormat = *o.LogFormat
	}
}
