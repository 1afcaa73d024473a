package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks github.com/mattjoyce/hookscope/internal/report Sink

// Sink receives formatted blocks.
type Sink interface {
	Write(block string) error
}

// StreamSink writes blocks to an io.Writer shared by concurrent requests.
// Each block is written with one call while holding the lock, so blocks
// from different requests never interleave.
type StreamSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStreamSink creates a sink writing to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Write writes block to the underlying stream.
func (s *StreamSink) Write(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, block); err != nil {
		return fmt.Errorf("write report block: %w", err)
	}
	return nil
}

// StartupInfo is the active configuration shown when the server starts.
type StartupInfo struct {
	Secret          string
	Port            uint16
	Listen          string
	SignatureHeader string
	MaxBodySize     int64
	ConfigSource    string
}

// Banner renders the startup block. The secret is printed unmasked so
// operators can confirm which key is active.
func Banner(info StartupInfo) string {
	var b strings.Builder
	b.WriteString(lightRule + "\n")
	b.WriteString("Active Secret:    '" + info.Secret + "'\n")
	b.WriteString("Listening Port:   " + strconv.FormatUint(uint64(info.Port), 10) + "\n")
	if info.Listen != "" {
		b.WriteString("Listen Address:   " + info.Listen + "\n")
	}
	if info.SignatureHeader != "" {
		b.WriteString("Signature Header: " + info.SignatureHeader + "\n")
	}
	if info.MaxBodySize > 0 {
		b.WriteString("Max Body Size:    " + strconv.FormatInt(info.MaxBodySize, 10) + " bytes\n")
	}
	if info.ConfigSource != "" {
		b.WriteString("Config Source:    " + info.ConfigSource + "\n")
	}
	b.WriteString(lightRule + "\n")
	return b.String()
}
