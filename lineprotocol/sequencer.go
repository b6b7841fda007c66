// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"math"
	"time"
)

const (
	// Tick is the increment between consecutive points of one measurement.
	Tick = time.Millisecond

	// MaxTicks is the maximum number of sequenced points per section of
	// one run.
	MaxTicks = 10_000_000
)

var (
	minBase = time.Unix(0, math.MinInt64)
	maxBase = time.Unix(0, math.MaxInt64).Add(-(MaxTicks + 1) * Tick)
)

// InRange reports whether t can be used as a base instant: t itself and
// MaxTicks ticks after it are representable in int64 nanoseconds.
func InRange(t time.Time) bool {
	return !t.Before(minBase) && !t.After(maxBase)
}

// Sequencer yields strictly increasing timestamps after a base instant so
// that points sharing measurement and tags don't overwrite each other.
//
// A Sequencer belongs to a single run. It isn't safe for concurrent use.
type Sequencer struct {
	baseMillis int64
	n          int64
}

// NewSequencer returns a Sequencer starting at base, truncated to Tick.
func NewSequencer(base time.Time) *Sequencer {
	return &Sequencer{baseMillis: base.UnixMilli()}
}

// Next returns the next timestamp in nanoseconds. The first call returns
// base plus one tick.
func (s *Sequencer) Next() int64 {
	s.n++
	return (s.baseMillis + s.n) * int64(Tick)
}

// Timestamps returns the next n timestamps.
func (s *Sequencer) Timestamps(n int) []int64 {
	res := make([]int64, n)
	for i := range res {
		res[i] = s.Next()
	}
	return res
}
