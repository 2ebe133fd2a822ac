package check

import "errors"

// Status represents the outcome of a check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Failure kinds wrapped into Result.Err. Callers match them with errors.Is.
var (
	ErrMissingFile    = errors.New("missing file")
	ErrMissingToken   = errors.New("missing token")
	ErrProcessFailure = errors.New("process failure")
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string   // e.g., "Kconfig", "board files"
	Status  Status   // OK or FAIL
	Details []string // human-readable details, the first one is the message
	Err     error    // underlying error for failures
}

// OK returns true if the check passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Message returns the first detail line, or an empty string.
func (r Result) Message() string {
	if len(r.Details) == 0 {
		return ""
	}
	return r.Details[0]
}
