// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/lineprotocol"
	"github.com/benchline/benchline/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFile(idx int) types.RunFile {
	return types.RunFile{
		Name: fmt.Sprintf("run%02d.json", idx),
		Data: []byte(fmt.Sprintf(`{
			"date": "2020-01-%02dT00:00:00Z",
			"options": {"idx": %d},
			"count": 10,
			"rps": 1.5,
			"histogram": [{"mark": 0.01, "count": 10}],
			"details": [{"latency": 1, "error": null, "status": "OK"}]
		}`, idx+1, idx)),
	}
}

func newTestEncoder(t *testing.T, maxRecords, concurrency int) *Encoder {
	spec := types.NewDefaultEncodeProfile().Spec
	spec.MaxRecords = maxRecords
	spec.Concurrency = concurrency

	enc, err := NewEncoder(spec)
	require.NoError(t, err)
	return enc
}

func TestEncodeToleratesBadRecords(t *testing.T) {
	files := make([]types.RunFile, 0, 10)
	for i := 0; i < 10; i++ {
		files = append(files, runFile(i))
	}
	files[4] = types.RunFile{Name: "run04.json", Data: []byte(`{"date": `)}

	res := newTestEncoder(t, types.DefaultMaxRecords, 1).Encode(context.Background(), files)
	assert.Equal(t, 10, res.Processed)
	assert.Len(t, res.Succeeded, 9)
	assert.NotContains(t, res.Succeeded, "run04.json")
	assert.Empty(t, res.Skipped)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "run04.json", res.Failures[0].Record)
	var perr *record.ParseError
	assert.True(t, errors.As(res.Failures[0].Err, &perr))

	assert.Len(t, res.Lines.Summary, 9)
	assert.Len(t, res.Lines.Histogram, 9)
	assert.Len(t, res.Lines.Details, 9)
	for _, l := range res.Lines.Summary {
		assert.NotContains(t, l, "idx=4,")
	}

	err := res.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run04.json")
	assert.Contains(t, err.Error(), "1 error occurred")
}

func TestEncodeInvalidDate(t *testing.T) {
	files := []types.RunFile{
		runFile(0),
		{Name: "baddate.json", Data: []byte(`{"date": "not a date", "count": 1}`)},
		runFile(2),
	}

	res := newTestEncoder(t, 10, 2).Encode(context.Background(), files)
	assert.Equal(t, []string{"run00.json", "run02.json"}, res.Succeeded)

	require.Len(t, res.Failures, 1)
	var derr *record.InvalidDateError
	assert.True(t, errors.As(res.Failures[0].Err, &derr))
	assert.Equal(t, "not a date", derr.Value)
}

func TestEncodeCap(t *testing.T) {
	files := make([]types.RunFile, 0, 8)
	for i := 0; i < 8; i++ {
		files = append(files, runFile(i))
	}

	res := newTestEncoder(t, 5, 3).Encode(context.Background(), files)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, []string{"run00.json", "run01.json", "run02.json", "run03.json", "run04.json"}, res.Succeeded)
	assert.NoError(t, res.Err())

	require.Len(t, res.Skipped, 3)
	for i, s := range res.Skipped {
		assert.Equal(t, fmt.Sprintf("run%02d.json", i+5), s.Record)
		assert.Equal(t, i+5, s.Index)
		assert.Equal(t, 5, s.Cap)
	}
	assert.Contains(t, res.Skipped[0].Error(), "maximum 5 records reached")

	require.Len(t, res.Lines.Summary, 5)
	for i, l := range res.Lines.Summary {
		assert.True(t, strings.HasPrefix(l, fmt.Sprintf("ghz_run,idx=%d,", i)), l)
	}
}

func TestEncodeReadsOnlyCappedFiles(t *testing.T) {
	var mu sync.Mutex
	read := map[string]bool{}

	files := make([]types.RunFile, 0, 31)
	for i := 0; i < 31; i++ {
		f := runFile(i)
		data := f.Data
		f.Data = nil
		f.Load = func() ([]byte, error) {
			mu.Lock()
			defer mu.Unlock()

			read[f.Name] = true
			return data, nil
		}
		files = append(files, f)
	}
	// unreadable, but beyond the cap
	files[30].Load = func() ([]byte, error) {
		return nil, os.ErrPermission
	}
	// unreadable within the cap fails only that record
	files[3].Load = func() ([]byte, error) {
		return nil, fmt.Errorf("failed to read run03.json: %w", os.ErrPermission)
	}

	res := newTestEncoder(t, types.DefaultMaxRecords, 4).Encode(context.Background(), files)
	assert.Equal(t, 30, res.Processed)
	assert.Len(t, res.Succeeded, 29)
	assert.Len(t, read, 29)
	assert.False(t, read["run30.json"])

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "run03.json", res.Failures[0].Record)
	assert.True(t, errors.Is(res.Failures[0].Err, os.ErrPermission))

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "run30.json", res.Skipped[0].Record)
	assert.Len(t, res.Lines.Summary, 29)
}

func TestEncodeOutOfRangeRecords(t *testing.T) {
	files := []types.RunFile{
		runFile(0),
		{Name: "future.json", Data: []byte(`{"date": "2300-01-01T00:00:00Z", "count": 1, "details": [{"latency": 1}]}`)},
		{Name: "huge.json", Data: []byte(`{"date": "2020-01-01T00:00:00Z", "histogram": [{"mark": 0.01, "count": 1e19}]}`)},
	}

	res := newTestEncoder(t, 10, 1).Encode(context.Background(), files)
	assert.Equal(t, []string{"run00.json", "huge.json"}, res.Succeeded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "future.json", res.Failures[0].Record)
	var derr *record.InvalidDateError
	assert.True(t, errors.As(res.Failures[0].Err, &derr))

	for _, l := range res.Lines.Summary {
		assert.NotContains(t, l, "2300")
	}
	assert.Contains(t, res.Lines.Histogram[1], " count=10000000000000000000 ")

	spec := types.NewDefaultEncodeProfile().Spec
	spec.HistogramMode = types.HistogramModeSample
	enc, err := NewEncoder(spec)
	require.NoError(t, err)

	res = enc.Encode(context.Background(), files[2:])
	assert.Empty(t, res.Succeeded)
	require.Len(t, res.Failures, 1)
	var tooMany *lineprotocol.TooManyPointsError
	assert.True(t, errors.As(res.Failures[0].Err, &tooMany))
	assert.Equal(t, 0, res.Lines.Len())
}

func TestEncodeOrderIsStableUnderConcurrency(t *testing.T) {
	files := make([]types.RunFile, 0, 30)
	for i := 0; i < 30; i++ {
		files = append(files, runFile(i))
	}

	sequential := newTestEncoder(t, 30, 1).Encode(context.Background(), files)
	parallel := newTestEncoder(t, 30, 8).Encode(context.Background(), files)

	assert.Equal(t, sequential.Lines, parallel.Lines)
	assert.Equal(t, sequential.Succeeded, parallel.Succeeded)
}

func TestEncodeReport(t *testing.T) {
	files := []types.RunFile{
		runFile(0),
		{Name: "broken.json", Data: []byte(`[]`)},
		runFile(1),
	}

	res := newTestEncoder(t, 2, 1).Encode(context.Background(), files)
	report := res.Report()

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, map[types.Section]int{
		types.SectionSummary:   1,
		types.SectionHistogram: 1,
		types.SectionDetails:   1,
	}, report.Lines)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "broken.json", report.Failures[0].Record)
	assert.Contains(t, report.Failures[0].Error, "expected object")
	assert.Equal(t, []string{"run01.json"}, report.Skipped)
}

func TestEncodeEmpty(t *testing.T) {
	res := newTestEncoder(t, 1, 1).Encode(context.Background(), nil)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 0, res.Lines.Len())
	assert.NoError(t, res.Err())
}

func TestNewEncoderInvalid(t *testing.T) {
	spec := types.NewDefaultEncodeProfile().Spec
	spec.MaxRecords = 0
	_, err := NewEncoder(spec)
	assert.Error(t, err)

	spec = types.NewDefaultEncodeProfile().Spec
	spec.Concurrency = 0
	_, err = NewEncoder(spec)
	assert.Error(t, err)
}
