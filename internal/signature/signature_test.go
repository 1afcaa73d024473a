package signature

import (
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prodSecret       = "sk_prod_123456"
	helloWorldHMAC   = "e6fa8032599cfbb055e4835c5daa906a1758125d56134f50b2a0af74150c8959"
	allZeroSignature = "sha256=0000000000000000000000000000000000000000000000000000000000000000"
)

func TestComputeDigest(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		body   string
		want   string
	}{
		{name: "hello world", secret: prodSecret, body: "hello world", want: helloWorldHMAC},
		{name: "test payload", secret: "test-secret", body: "test payload", want: "2f94a757d2246073e26781d117ce0183ebd87b4d66c460494376d5c37d71985b"},
		{name: "empty key and body", secret: "", body: "", want: "b613679a0814d9ec772f95d778c35fc5ff1697c493715653c6c712144292c5ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDigest([]byte(tt.secret), []byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 64)
		})
	}
}

func TestComputeDigest_RawBytes(t *testing.T) {
	secret := []byte(prodSecret)
	base := ComputeDigest(secret, []byte("hello world"))

	// Trailing whitespace and newlines are part of the signed bytes.
	assert.NotEqual(t, base, ComputeDigest(secret, []byte("hello world\n")))
	assert.NotEqual(t, base, ComputeDigest(secret, []byte("hello world ")))
	assert.NotEqual(t, base, ComputeDigest(secret, []byte("\xefhello world")))
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader("sha256=ABCdef01")
	require.NoError(t, err)
	assert.Equal(t, "sha256", h.Algorithm)
	assert.Equal(t, "ABCdef01", h.Digest)

	_, err = ParseHeader("sha1=abcdef")
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestVerify_Scenarios(t *testing.T) {
	secret := []byte(prodSecret)
	body := []byte("hello world")

	tests := []struct {
		name       string
		value      string
		present    bool
		wantStatus Status
		wantReason Reason
		wantCode   int
		wantLabel  string
	}{
		{
			name:       "valid signature",
			value:      FormatHeader(helloWorldHMAC),
			present:    true,
			wantStatus: Passed,
			wantCode:   http.StatusOK,
			wantLabel:  "PASS",
		},
		{
			name:       "valid signature - uppercase hex",
			value:      "sha256=" + strings.ToUpper(helloWorldHMAC),
			present:    true,
			wantStatus: Passed,
			wantCode:   http.StatusOK,
			wantLabel:  "PASS",
		},
		{
			name:       "all zero digest",
			value:      allZeroSignature,
			present:    true,
			wantStatus: Failed,
			wantReason: DigestMismatch,
			wantCode:   http.StatusUnauthorized,
			wantLabel:  "FAIL",
		},
		{
			name:       "wrong format",
			value:      "not_the_right_format",
			present:    true,
			wantStatus: Failed,
			wantReason: MalformedHeader,
			wantCode:   http.StatusBadRequest,
			wantLabel:  "INVALID-FORMAT",
		},
		{
			name:       "header absent",
			present:    false,
			wantStatus: Skipped,
			wantCode:   http.StatusOK,
			wantLabel:  "SKIPPED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Verify(secret, body, tt.value, tt.present)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantReason, out.Reason)
			assert.Equal(t, tt.wantCode, out.StatusCode())
			assert.Equal(t, tt.wantLabel, out.Label())
			assert.Equal(t, tt.present, out.Attempted())
		})
	}
}

func TestVerify_MalformedHeaders(t *testing.T) {
	secret := []byte(prodSecret)
	body := []byte("hello world")

	values := []string{
		"",
		helloWorldHMAC, // missing prefix
		"sha256=",      // empty digest
		"sha256=xyz",   // non-hex
		"sha256=" + helloWorldHMAC + "g",
		"SHA256=" + helloWorldHMAC, // prefix is literal
		"sha512=" + helloWorldHMAC,
		" sha256=" + helloWorldHMAC,
		"sha256=" + helloWorldHMAC + " ",
		"sha256=" + helloWorldHMAC + "\n",
		"sha256=ab=cd",
		"sha256=\xff\xfe",
	}

	for _, v := range values {
		out := Verify(secret, body, v, true)
		assert.Equal(t, Failed, out.Status, "value %q", v)
		assert.Equal(t, MalformedHeader, out.Reason, "value %q", v)
		assert.Equal(t, v, out.Received)
		assert.Equal(t, helloWorldHMAC, out.Expected)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	bodies := [][]byte{
		nil,
		[]byte(""),
		[]byte(`{"event":"push"}`),
		[]byte("line one\r\nline two\n"),
		{0x00, 0xff, 0xfe, 0x80},
	}
	secrets := [][]byte{
		[]byte(prodSecret),
		[]byte(""),
		{0xde, 0xad, 0xbe, 0xef},
		[]byte(strings.Repeat("k", 200)), // longer than the SHA-256 block size
	}

	for _, s := range secrets {
		for _, b := range bodies {
			out := Verify(s, b, FormatHeader(ComputeDigest(s, b)), true)
			assert.Equal(t, Passed, out.Status)
		}
	}
}

func TestVerify_SingleBitFlip(t *testing.T) {
	secret := []byte(prodSecret)
	body := []byte("hello world")

	raw, err := hex.DecodeString(ComputeDigest(secret, body))
	require.NoError(t, err)

	for i := 0; i < len(raw)*8; i++ {
		flipped := append([]byte(nil), raw...)
		flipped[i/8] ^= 1 << (i % 8)

		out := Verify(secret, body, FormatHeader(hex.EncodeToString(flipped)), true)
		require.Equal(t, Failed, out.Status, "bit %d", i)
		require.Equal(t, DigestMismatch, out.Reason, "bit %d", i)
	}
}

func TestVerify_WrongSecretOrBody(t *testing.T) {
	sig := FormatHeader(ComputeDigest([]byte(prodSecret), []byte("hello world")))

	out := Verify([]byte("wrong-secret"), []byte("hello world"), sig, true)
	assert.Equal(t, DigestMismatch, out.Reason)

	out = Verify([]byte(prodSecret), []byte("hello world!"), sig, true)
	assert.Equal(t, DigestMismatch, out.Reason)

	// Well-formed but truncated digests are mismatches, not format errors.
	out = Verify([]byte(prodSecret), []byte("hello world"), sig[:20], true)
	assert.Equal(t, DigestMismatch, out.Reason)
}

func TestVerify_SkippedIgnoresBody(t *testing.T) {
	for _, b := range []string{"", "hello", "\x00\x01"} {
		out := Verify([]byte(prodSecret), []byte(b), "", false)
		assert.Equal(t, Skipped, out.Status)
		assert.Empty(t, out.Expected)
		assert.Empty(t, out.Received)
	}
}
