package signature

import "net/http"

// Status is the coarse result of a verification attempt.
type Status int

const (
	Skipped Status = iota
	Passed
	Failed
)

// Reason qualifies a Failed outcome.
type Reason int

const (
	NoReason Reason = iota
	MalformedHeader
	DigestMismatch
)

func (r Reason) String() string {
	switch r {
	case MalformedHeader:
		return "malformed header"
	case DigestMismatch:
		return "digest mismatch"
	default:
		return "none"
	}
}

// Outcome is the result of Verify for a single request.
type Outcome struct {
	Status Status
	Reason Reason

	// Expected is the digest computed from the body; empty when Skipped.
	Expected string
	// Received is the raw header value as sent; empty when Skipped.
	Received string
}

// Attempted reports whether a signature header was present.
func (o Outcome) Attempted() bool {
	return o.Status != Skipped
}

// Label returns the short result label shown to operators.
func (o Outcome) Label() string {
	switch {
	case o.Status == Passed:
		return "PASS"
	case o.Status == Failed && o.Reason == MalformedHeader:
		return "INVALID-FORMAT"
	case o.Status == Failed:
		return "FAIL"
	default:
		return "SKIPPED"
	}
}

// StatusCode maps the outcome to the HTTP status returned to the sender.
func (o Outcome) StatusCode() int {
	if o.Status != Failed {
		return http.StatusOK
	}
	if o.Reason == MalformedHeader {
		return http.StatusBadRequest
	}
	return http.StatusUnauthorized
}
