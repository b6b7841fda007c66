// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package batch

import "fmt"

// CapExceededError reports a run file skipped because the batch already
// holds the maximum number of records. It's informational.
type CapExceededError struct {
	// Record identifies the skipped run file.
	Record string
	// Index is the position of the run file in the input.
	Index int
	// Cap is the batch limit.
	Cap int
}

// Error implements error interface.
func (e *CapExceededError) Error() string {
	return fmt.Sprintf("maximum %d records reached, skipping %s (#%d)", e.Cap, e.Record, e.Index)
}

// Failure is a run file which produced no output.
type Failure struct {
	Record string
	Err    error
}
