package webhook

import (
	"errors"
	"time"
)

// Config holds webhook inspector configuration.
// A Config is shared read-only by every request.
type Config struct {
	Listen string

	// Secret is the HMAC key used to check signatures.
	Secret []byte

	// SignatureHeader is the HTTP header carrying "sha256=<hex>".
	SignatureHeader string

	// MaxBodySize is the maximum request body size in bytes.
	MaxBodySize int64

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Default values
const (
	DefaultMaxBodySize     = 10 * 1024 * 1024 // 10 MB
	DefaultSignatureHeader = "X-Super-Signature"
)

// ErrBodyTooLarge is returned when a request body exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("payload too large")
