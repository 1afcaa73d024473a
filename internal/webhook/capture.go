package webhook

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/mattjoyce/hookscope/internal/report"
)

// readBody reads the whole body unmodified, failing with ErrBodyTooLarge
// when it is longer than limit.
func readBody(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	// One byte past the limit tells an oversized body from one that fits.
	// At the int64 ceiling no body can exceed the limit.
	if limit < math.MaxInt64 {
		body = io.LimitReader(body, limit+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	// Check if body exceeded limit
	if int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}

	return data, nil
}

// collectHeaders returns the request headers with lowercase names, one value
// per name (the last one sent), sorted by name. net/http keeps Host and
// Transfer-Encoding outside the header map, so they are restored here.
func collectHeaders(r *http.Request) []report.Header {
	headers := make([]report.Header, 0, len(r.Header)+2)
	seen := make(map[string]bool, len(r.Header))

	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		lower := strings.ToLower(name)
		seen[lower] = true
		headers = append(headers, report.Header{Name: lower, Value: values[len(values)-1]})
	}

	if r.Host != "" && !seen["host"] {
		headers = append(headers, report.Header{Name: "host", Value: r.Host})
	}
	if len(r.TransferEncoding) > 0 && !seen["transfer-encoding"] {
		headers = append(headers, report.Header{
			Name:  "transfer-encoding",
			Value: strings.Join(r.TransferEncoding, ", "),
		})
	}

	sort.Slice(headers, func(i, j int) bool {
		return headers[i].Name < headers[j].Name
	})
	return headers
}

// signatureValue returns the last value of the signature header and whether
// the header was sent at all.
func signatureValue(h http.Header, name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}
