// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"errors"
	"fmt"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/literal"
)

// ErrDateOutOfRange is returned when a run's points can't be timestamped in
// int64 nanoseconds.
var ErrDateOutOfRange = errors.New("date out of range")

// TooManyPointsError is returned when a section of one run needs more than
// MaxTicks points.
type TooManyPointsError struct {
	Section types.Section
	// Points is the number of points the section asks for.
	Points float64
}

// Error implements error interface.
func (e *TooManyPointsError) Error() string {
	return fmt.Sprintf("%s section needs %s points, limit is %d",
		e.Section, literal.Number(e.Points), MaxTicks)
}
