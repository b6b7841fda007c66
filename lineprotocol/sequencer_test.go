// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer(t *testing.T) {
	base := time.UnixMilli(1533758927123).Add(456789 * time.Nanosecond)

	seq := NewSequencer(base)
	assert.Equal(t, int64(1533758927124000000), seq.Next())
	assert.Equal(t, int64(1533758927125000000), seq.Next())
	assert.Equal(t, []int64{1533758927126000000, 1533758927127000000}, seq.Timestamps(2))

	// independent sequencers don't share state
	other := NewSequencer(base)
	assert.Equal(t, int64(1533758927124000000), other.Next())

	assert.Empty(t, NewSequencer(base).Timestamps(0))
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(time.Unix(0, 0)))
	assert.True(t, InRange(time.Date(2262, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, InRange(time.Date(1678, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.False(t, InRange(time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, InRange(time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, InRange(time.UnixMilli(8.64e15)))

	// the last sequenced point must fit as well
	assert.False(t, InRange(time.Unix(0, math.MaxInt64).Add(-time.Second)))

	last := time.Unix(0, math.MaxInt64).Add(-(MaxTicks + 1) * Tick)
	require.True(t, InRange(last))
	seq := NewSequencer(last)
	seq.n = MaxTicks - 1
	assert.Greater(t, seq.Next(), last.UnixNano())
}

func TestPointLine(t *testing.T) {
	p := Point{
		Measurement: "m",
		Tags:        []Tag{{Key: "a", Value: "1"}, {Key: "b", Value: `"x"`}},
		Fields:      []Field{{Key: "f", Value: "1.5"}, {Key: "g", Value: "null"}},
		Timestamp:   42,
	}
	assert.Equal(t, `m,a=1,b="x" f=1.5,g=null 42`, p.Line())

	p.Tags = nil
	assert.Equal(t, `m f=1.5,g=null 42`, p.Line())
}
