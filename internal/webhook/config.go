package webhook

import (
	"github.com/mattjoyce/hookscope/internal/config"
)

// FromConfig converts the process configuration to webhook.Config.
// The secret is copied so later changes to cfg cannot reach the handler.
func FromConfig(cfg config.Config) Config {
	c := Config{
		Listen:          cfg.Addr(),
		Secret:          cfg.SecretBytes(),
		SignatureHeader: cfg.SignatureHeader,
		MaxBodySize:     cfg.MaxBodySize.Bytes(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
	}
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	if c.SignatureHeader == "" {
		c.SignatureHeader = DefaultSignatureHeader
	}
	return c
}
