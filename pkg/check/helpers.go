package check

import (
	"fmt"
)

// Fail sets the result to failed status with a detail message.
func (r *Result) Fail(detail string, err error) Result {
	r.Status = StatusFail
	r.Details = append(r.Details, detail)
	r.Err = err
	return *r
}

// Failf sets the result to failed status with a formatted detail message.
func (r *Result) Failf(format string, args ...interface{}) Result {
	return r.Fail(fmt.Sprintf(format, args...), fmt.Errorf(format, args...))
}

// FailKind fails the result with detail and an error wrapping kind,
// so errors.Is(result.Err, kind) holds.
func (r *Result) FailKind(kind error, detail string) Result {
	return r.Fail(detail, fmt.Errorf("%w: %s", kind, detail))
}

// Pass marks the result as successful with a detail message.
func (r *Result) Pass(detail string) Result {
	r.Status = StatusOK
	r.Details = append(r.Details, detail)
	return *r
}

// AddDetail appends a detail line to the result.
func (r *Result) AddDetail(detail string) *Result {
	r.Details = append(r.Details, detail)
	return r
}

// AddDetailf appends a formatted detail line to the result.
func (r *Result) AddDetailf(format string, args ...interface{}) *Result {
	return r.AddDetail(fmt.Sprintf(format, args...))
}
