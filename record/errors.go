// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package record

import "fmt"

// ParseError is returned when the run file isn't a JSON object.
type ParseError struct {
	Err error
}

// Error implements error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse run record: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidDateError is returned when the run's date can't be parsed into a
// valid instant.
type InvalidDateError struct {
	// Value is the date as it appeared in the run file. It's empty when the
	// date is absent.
	Value string
}

// Error implements error interface.
func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return "invalid run date: date is required"
	}
	return fmt.Sprintf("invalid run date: %s", e.Value)
}
