package entity

import "fmt"

// InputError means a required client field was absent. No upstream call is made.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// UpstreamError is returned when an upstream answered with a non-2xx status.
// The relay mirrors StatusCode and renders the remaining fields as the error body.
type UpstreamError struct {
	StatusCode int
	Summary    string
	Message    string
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Summary)
}

// ConnectError reports that an upstream could not be reached at all.
type ConnectError struct {
	Summary string
	Err     error
}

func (e *ConnectError) Error() string {
	return e.Err.Error()
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
