// Package payload turns raw request bodies into display text.
//
// Detection is by content, not by the declared Content-Type, since webhook
// senders frequently mislabel their payloads. A body is rendered as exactly
// one of three kinds: pretty-printed JSON, plain text, or a binary summary.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"
)

// Kind identifies how a body was rendered.
type Kind int

const (
	PlainText Kind = iota
	PrettyJSON
	BinarySummary
)

func (k Kind) String() string {
	switch k {
	case PrettyJSON:
		return "json"
	case BinarySummary:
		return "binary"
	default:
		return "text"
	}
}

// Rendered is the display form of a request body.
type Rendered struct {
	Kind Kind
	Text string
	// Size is the length of the original body in bytes.
	Size int
	// Declared is the media type from the Content-Type header, if any.
	Declared string
}

// Empty reports whether the original body had no bytes.
func (r Rendered) Empty() bool {
	return r.Size == 0
}

// Mislabeled reports whether the sender declared a JSON media type but the
// body did not parse as JSON.
func (r Rendered) Mislabeled() bool {
	return r.Kind != PrettyJSON && !r.Empty() && isJSONMediaType(r.Declared)
}

// Render renders body for display. contentType is recorded but never
// influences detection.
func Render(body []byte, contentType string) Rendered {
	r := Rendered{
		Size:     len(body),
		Declared: mediaType(contentType),
	}

	if !utf8.Valid(body) {
		r.Kind = BinarySummary
		r.Text = fmt.Sprintf("<binary, %d bytes>", len(body))
		return r
	}

	if pretty, err := prettyJSON(body); err == nil {
		r.Kind = PrettyJSON
		r.Text = pretty
		return r
	}

	r.Kind = PlainText
	r.Text = string(body)
	return r
}

var errTrailingData = errors.New("unexpected data after top-level JSON value")

// prettyJSON re-encodes a single JSON value with sorted object keys and
// two-space indentation. Numbers are kept as written.
func prettyJSON(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", errTrailingData
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("re-encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isJSONMediaType(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
