// Package signature computes and checks HMAC-SHA256 webhook signatures.
//
// Senders sign the raw request body with a pre-shared secret and send the
// result as "sha256=<hex>". The digest is always computed over the exact
// bytes received; nothing is trimmed, re-encoded or appended.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Prefix is the algorithm prefix expected in the signature header.
const Prefix = "sha256="

// ErrMalformedHeader is returned by ParseHeader when a value does not match
// the "sha256=<hex>" pattern.
var ErrMalformedHeader = errors.New("malformed signature header")

var headerPattern = regexp.MustCompile(`^sha256=[0-9a-fA-F]+$`)

// Header is a parsed signature header value.
type Header struct {
	Algorithm string // always "sha256"
	Digest    string // hex digest as sent, case preserved
}

// ParseHeader parses a "sha256=<hex>" header value.
func ParseHeader(value string) (Header, error) {
	if !utf8.ValidString(value) || !headerPattern.MatchString(value) {
		return Header{}, ErrMalformedHeader
	}
	return Header{
		Algorithm: strings.TrimSuffix(Prefix, "="),
		Digest:    strings.TrimPrefix(value, Prefix),
	}, nil
}

// ComputeDigest returns the lowercase hex HMAC-SHA256 of body keyed by secret.
func ComputeDigest(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// FormatHeader formats a hex digest as a signature header value.
func FormatHeader(digest string) string {
	return Prefix + digest
}

// Verify checks the signature header of a request against body.
//
// present reports whether the header was sent at all; a missing header skips
// verification, while an empty or otherwise malformed one fails it.
// Digests are compared in constant time and without regard to hex case.
func Verify(secret, body []byte, value string, present bool) Outcome {
	if !present {
		return Outcome{Status: Skipped}
	}

	out := Outcome{
		Expected: ComputeDigest(secret, body),
		Received: value,
	}

	h, err := ParseHeader(value)
	if err != nil {
		out.Status = Failed
		out.Reason = MalformedHeader
		return out
	}

	provided := strings.ToLower(h.Digest)
	if subtle.ConstantTimeCompare([]byte(out.Expected), []byte(provided)) != 1 {
		out.Status = Failed
		out.Reason = DigestMismatch
		return out
	}

	out.Status = Passed
	return out
}
