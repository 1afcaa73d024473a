// Package report formats captured webhook requests into console blocks and
// writes them to a shared output stream.
//
// Formatting is pure: Format takes everything it prints as input, including
// the capture timestamp, so blocks can be checked without capturing stdout.
// Writing goes through a Sink, which emits each block with a single write.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mattjoyce/hookscope/internal/payload"
	"github.com/mattjoyce/hookscope/internal/signature"
)

const (
	ruleWidth     = 56
	timestampForm = "2006-01-02T15:04:05.000Z07:00"
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Header is a single request header as displayed: lowercase name, one value.
type Header struct {
	Name  string
	Value string
}

// Entry is everything shown for one captured request.
type Entry struct {
	ID         string
	ReceivedAt time.Time
	Method     string
	Path       string
	Proto      string
	RemoteAddr string

	Headers []Header
	Payload payload.Rendered
	Outcome signature.Outcome

	// Secret is shown verbatim in the verification section.
	Secret string
}

// Formatter renders entries as line-oriented text blocks.
type Formatter struct {
	theme Theme
}

// NewFormatter creates a formatter using theme for styling.
func NewFormatter(theme Theme) *Formatter {
	return &Formatter{theme: theme}
}

// Format renders one self-contained block for e.
func (f *Formatter) Format(e Entry) string {
	var b strings.Builder
	th := f.theme

	b.WriteString("\n")
	b.WriteString(th.paint(th.Banner, heavyRule) + "\n")
	b.WriteString(th.paint(th.Title, "Request: "+e.Method+" "+e.Path) + "\n")

	meta := []Header{{Name: "received", Value: e.ReceivedAt.UTC().Format(timestampForm)}}
	if e.ID != "" {
		meta = append(meta, Header{Name: "id", Value: e.ID})
	}
	if e.RemoteAddr != "" {
		meta = append(meta, Header{Name: "remote", Value: e.RemoteAddr})
	}
	if e.Proto != "" {
		meta = append(meta, Header{Name: "proto", Value: e.Proto})
	}
	f.writeAligned(&b, meta)
	b.WriteString(th.paint(th.Banner, heavyRule) + "\n")

	b.WriteString(th.paint(th.Section, "[Headers]") + "\n")
	if len(e.Headers) == 0 {
		b.WriteString("  " + th.paint(th.Dim, "<no headers>") + "\n")
	} else {
		f.writeAligned(&b, e.Headers)
	}

	b.WriteString("\n" + th.paint(th.Section, "[Body]") + " " + th.paint(th.Dim, describe(e.Payload)) + "\n")
	switch {
	case e.Payload.Empty():
		b.WriteString("  " + th.paint(th.Dim, "<empty body>") + "\n")
	case e.Payload.Kind == payload.BinarySummary:
		b.WriteString("  " + e.Payload.Text + "\n")
	default:
		b.WriteString(displayBody(e.Payload.Text))
		if !strings.HasSuffix(e.Payload.Text, "\n") {
			b.WriteString("\n")
		}
	}

	if e.Outcome.Attempted() {
		b.WriteString("\n" + th.paint(th.Section, "[Verification]") + "\n")
		f.writeAligned(&b, []Header{
			{Name: "secret", Value: "'" + e.Secret + "'"},
			{Name: "expected", Value: e.Outcome.Expected},
			{Name: "received", Value: e.Outcome.Received},
		})
		b.WriteString("  " + th.paint(th.Key, padRight("result", 8)) + " : " + f.label(e.Outcome) + "\n")
	}

	b.WriteString(th.paint(th.Banner, lightRule) + "\n")
	return b.String()
}

func (f *Formatter) label(o signature.Outcome) string {
	th := f.theme
	text := o.Label()
	switch text {
	case "PASS":
		return th.paint(th.Pass, text) + " signature verified"
	case "INVALID-FORMAT":
		return th.paint(th.Invalid, text) + " expected sha256=<hex> (400 Bad Request)"
	default:
		return th.paint(th.Fail, text) + " digest mismatch (401 Unauthorized)"
	}
}

// writeAligned writes name/value pairs with values starting in one column.
func (f *Formatter) writeAligned(b *strings.Builder, rows []Header) {
	width := 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r.Name); n > width {
			width = n
		}
	}
	// Keep the value column stable for the short verification keys.
	if width < 8 {
		width = 8
	}
	for _, r := range rows {
		b.WriteString("  " + f.theme.paint(f.theme.Key, padRight(r.Name, width)) + " : " + displayValue(r.Value) + "\n")
	}
}

func describe(p payload.Rendered) string {
	s := fmt.Sprintf("%s, %d bytes", p.Kind, p.Size)
	if p.Declared != "" {
		s += ", declared " + p.Declared
	}
	if p.Mislabeled() {
		s += " (not valid JSON)"
	}
	return s
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// displayValue quotes values that would otherwise put raw control or
// non-UTF-8 bytes on the console.
func displayValue(v string) string {
	if !utf8.ValidString(v) {
		return strconv.Quote(v)
	}
	for _, r := range v {
		if unicode.IsControl(r) && r != '\t' {
			return strconv.Quote(v)
		}
	}
	return v
}

// displayBody escapes control characters other than newline and tab so a
// body cannot move the cursor or restyle the operator's terminal.
func displayBody(text string) string {
	clean := true
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
