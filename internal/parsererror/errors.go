// Package parsererror defines the error taxonomy of the sync pipeline.
// Only authentication loss is terminal for a run; network and parse
// problems are isolated per message and aggregated into the run result.
package parsererror

import "fmt"

// ParseError describes a field-extraction failure inside an issuer
// parser.
type ParseError struct {
	Issuer string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Issuer, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError describes a failed remote call for one message. It never
// aborts a run; the message is counted and the run continues.
type NetworkError struct {
	MessageID string
	Phase     string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s for message %s failed: %v",
		e.Phase, e.MessageID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError describes an extracted value that violates a model
// invariant (amount out of bounds, impossible calendar date). It is
// folded into the run's parse-error count, not raised as an exception.
type ValidationError struct {
	Issuer string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Issuer, e.Reason)
}
