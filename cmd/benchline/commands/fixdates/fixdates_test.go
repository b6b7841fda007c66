// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package fixdates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benchline/benchline/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfMonth(t *testing.T) {
	now := time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC), DayOfMonth(now, 1))
	assert.Equal(t, time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC), DayOfMonth(now, 29))
	// rolls over like Date.prototype.setDate
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), DayOfMonth(now, 30))
}

func TestRewriteDate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run1.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"date":"2018-01-01T00:00:00Z","count":1}`), 0600))

	date := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, rewriteDate(p, date))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	r, err := record.Parse(data)
	require.NoError(t, err)
	assert.True(t, date.Equal(r.Date))

	require.NoError(t, os.WriteFile(p, []byte(`not json`), 0600))
	assert.Error(t, rewriteDate(p, date))
}
