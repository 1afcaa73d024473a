package config

import (
	"fmt"
	"strings"
)

var (
	validColors     = map[string]bool{"auto": true, "always": true, "never": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate performs basic validation on the configuration.
func Validate(cfg Config) error {
	if cfg.Port == 0 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if err := validateHeaderName(cfg.SignatureHeader); err != nil {
		return err
	}

	if cfg.MaxBodySize <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}

	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	if !validColors[strings.ToLower(cfg.Color)] {
		return fmt.Errorf("color must be one of: auto, always, never (got %q)", cfg.Color)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error (got %q)", cfg.LogLevel)
	}

	if !validLogFormats[strings.ToLower(cfg.LogFormat)] {
		return fmt.Errorf("log_format must be one of: text, json (got %q)", cfg.LogFormat)
	}

	return nil
}

// validateHeaderName checks name is a valid HTTP field name (RFC 9110 token).
func validateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("signature_header is required")
	}
	for _, c := range name {
		if c > 0x7e || !isTokenChar(byte(c)) {
			return fmt.Errorf("signature_header %q is not a valid header name", name)
		}
	}
	return nil
}

func isTokenChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
