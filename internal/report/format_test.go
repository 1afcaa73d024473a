package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/hookscope/internal/payload"
	"github.com/mattjoyce/hookscope/internal/signature"
)

const (
	testSecret = "sk_prod_123456"
	testDigest = "e6fa8032599cfbb055e4835c5daa906a1758125d56134f50b2a0af74150c8959"
)

var testTime = time.Date(2026, 10, 14, 10, 0, 0, 123_000_000, time.UTC)

func baseEntry(body []byte, headerValue string, present bool) Entry {
	headers := []Header{{Name: "content-type", Value: "text/plain"}}
	if present {
		headers = append(headers, Header{Name: "x-super-signature", Value: headerValue})
	}
	return Entry{
		ID:         "abc",
		ReceivedAt: testTime,
		Method:     "POST",
		Path:       "/hooks/github?x=1",
		Proto:      "HTTP/1.1",
		RemoteAddr: "10.0.0.1:5555",
		Headers:    headers,
		Payload:    payload.Render(body, "text/plain"),
		Outcome:    signature.Verify([]byte(testSecret), body, headerValue, present),
		Secret:     testSecret,
	}
}

func TestFormat_PassedBlock(t *testing.T) {
	f := NewFormatter(PlainTheme())
	got := f.Format(baseEntry([]byte("hello world"), "sha256="+testDigest, true))

	want := strings.Join([]string{
		"",
		heavyRule,
		"Request: POST /hooks/github?x=1",
		"  received : 2026-10-14T10:00:00.123Z",
		"  id       : abc",
		"  remote   : 10.0.0.1:5555",
		"  proto    : HTTP/1.1",
		heavyRule,
		"[Headers]",
		"  content-type      : text/plain",
		"  x-super-signature : sha256=" + testDigest,
		"",
		"[Body] text, 11 bytes, declared text/plain",
		"hello world",
		"",
		"[Verification]",
		"  secret   : 'sk_prod_123456'",
		"  expected : " + testDigest,
		"  received : sha256=" + testDigest,
		"  result   : PASS signature verified",
		lightRule,
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestFormat_SkippedOmitsVerification(t *testing.T) {
	f := NewFormatter(PlainTheme())
	got := f.Format(baseEntry([]byte("hello world"), "", false))

	assert.NotContains(t, got, "[Verification]")
	assert.NotContains(t, got, testSecret)
	assert.Contains(t, got, "[Headers]")
	assert.Contains(t, got, "hello world\n")
	assert.True(t, strings.HasSuffix(got, lightRule+"\n"))
}

func TestFormat_FailureLabels(t *testing.T) {
	f := NewFormatter(PlainTheme())

	mismatch := f.Format(baseEntry([]byte("hello world"), "sha256="+strings.Repeat("0", 64), true))
	assert.Contains(t, mismatch, "  result   : FAIL digest mismatch (401 Unauthorized)\n")
	assert.Contains(t, mismatch, "  expected : "+testDigest+"\n")
	assert.Contains(t, mismatch, "  received : sha256="+strings.Repeat("0", 64)+"\n")

	invalid := f.Format(baseEntry([]byte("hello world"), "not_the_right_format", true))
	assert.Contains(t, invalid, "  result   : INVALID-FORMAT expected sha256=<hex> (400 Bad Request)\n")
	assert.Contains(t, invalid, "  received : not_the_right_format\n")
	assert.NotContains(t, invalid, "FAIL")
}

func TestFormat_Payloads(t *testing.T) {
	f := NewFormatter(PlainTheme())

	e := baseEntry(nil, "", false)
	got := f.Format(e)
	assert.Contains(t, got, "[Body] text, 0 bytes, declared text/plain\n  <empty body>\n")

	e = baseEntry([]byte{0xff, 0x00, 0xfe}, "", false)
	got = f.Format(e)
	assert.Contains(t, got, "[Body] binary, 3 bytes, declared text/plain\n  <binary, 3 bytes>\n")
	assert.NotContains(t, got, "\xff")

	e = baseEntry(nil, "", false)
	e.Payload = payload.Render([]byte(`{"b":2,"a":1}`), "")
	got = f.Format(e)
	assert.Contains(t, got, "[Body] json, 13 bytes\n{\n  \"a\": 1,\n  \"b\": 2\n}\n")

	e.Payload = payload.Render([]byte(`{"broken":`), "application/json")
	got = f.Format(e)
	assert.Contains(t, got, "[Body] text, 10 bytes, declared application/json (not valid JSON)\n{\"broken\":\n")

	// A trailing newline in a text body is not doubled.
	e.Payload = payload.Render([]byte("line\n"), "")
	got = f.Format(e)
	assert.Contains(t, got, "[Body] text, 5 bytes\nline\n"+lightRule)
}

func TestFormat_HeaderAlignmentAndEscaping(t *testing.T) {
	f := NewFormatter(PlainTheme())
	e := baseEntry([]byte("x"), "", false)
	e.Headers = []Header{
		{Name: "a", Value: "1"},
		{Name: "user-agent-long-name", Value: "curl/8.0"},
		{Name: "x-bin", Value: "\x01\xff"},
	}
	got := f.Format(e)

	assert.Contains(t, got, "  a                    : 1\n")
	assert.Contains(t, got, "  user-agent-long-name : curl/8.0\n")
	assert.Contains(t, got, "  x-bin                : \"\\x01\\xff\"\n")

	e.Headers = nil
	assert.Contains(t, f.Format(e), "[Headers]\n  <no headers>\n")
}

func TestFormat_OptionalMetadata(t *testing.T) {
	f := NewFormatter(PlainTheme())
	got := f.Format(Entry{ReceivedAt: testTime, Method: "GET", Path: "/"})

	assert.Contains(t, got, "Request: GET /\n  received : 2026-10-14T10:00:00.123Z\n"+heavyRule)
	assert.NotContains(t, got, "  id ")
}

func TestFormat_Deterministic(t *testing.T) {
	f := NewFormatter(PlainTheme())
	e := baseEntry([]byte(`{"z":1,"a":2}`), "sha256="+testDigest, true)
	assert.Equal(t, f.Format(e), f.Format(e))
}

func TestFormat_NonUTCTimestamp(t *testing.T) {
	f := NewFormatter(PlainTheme())
	e := baseEntry([]byte("x"), "", false)
	e.ReceivedAt = testTime.In(time.FixedZone("AEST", 10*60*60))
	assert.Contains(t, f.Format(e), "  received : 2026-10-14T10:00:00.123Z\n")
}

func TestNewTheme(t *testing.T) {
	var buf bytes.Buffer

	th, err := NewTheme(&buf, ColorNever)
	require.NoError(t, err)
	assert.False(t, th.enabled)

	// A bytes.Buffer is not a terminal.
	th, err = NewTheme(&buf, ColorAuto)
	require.NoError(t, err)
	assert.False(t, th.enabled)

	th, err = NewTheme(&buf, ColorAlways)
	require.NoError(t, err)
	assert.True(t, th.enabled)

	_, err = NewTheme(&buf, "rainbow")
	assert.Error(t, err)
}

func TestFormat_StylingSkipsPayload(t *testing.T) {
	var buf bytes.Buffer
	th, err := NewTheme(&buf, ColorAlways)
	require.NoError(t, err)

	f := NewFormatter(th)
	got := f.Format(baseEntry([]byte("hello\tworld"), "sha256="+testDigest, true))

	assert.Contains(t, got, "\nhello\tworld\n")
	assert.Contains(t, got, "\x1b[")
}

func TestFormat_EscapesBodyControlCharacters(t *testing.T) {
	f := NewFormatter(PlainTheme())
	body := []byte("ok\x1b[2J\rdone\r\n\tnext\x00\n")
	got := f.Format(baseEntry(body, "", false))

	assert.Contains(t, got, "\nok\\x1b[2J\\rdone\\r\n\tnext\\x00\n")
	assert.NotContains(t, got, "\x1b")
	assert.NotContains(t, got, "\r")
	assert.Contains(t, got, "[Body] text, 20 bytes, declared text/plain\n")
}
