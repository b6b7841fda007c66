// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package batch

import (
	"context"
	"fmt"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/lineprotocol"
	"github.com/benchline/benchline/log"
	"github.com/benchline/benchline/record"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Encoder encodes a bounded batch of run files. A failing run file is
// logged and skipped; it never aborts the batch.
type Encoder struct {
	enc         *lineprotocol.Encoder
	maxRecords  int
	concurrency int
}

// NewEncoder returns a batch Encoder configured by spec.
func NewEncoder(spec types.EncodeProfileSpec) (*Encoder, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	enc, err := lineprotocol.NewEncoder(spec)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		enc:         enc,
		maxRecords:  spec.MaxRecords,
		concurrency: spec.Concurrency,
	}, nil
}

// Result is the outcome of one batch.
type Result struct {
	// Lines holds output of succeeded run files in input order.
	Lines lineprotocol.Lines
	// Processed is the number of run files taken into the batch.
	Processed int
	// Succeeded lists run files encoded without error.
	Succeeded []string
	// Failures lists run files which produced no output.
	Failures []Failure
	// Skipped lists run files beyond the batch limit.
	Skipped []*CapExceededError
}

// Err returns all failures as one error, or nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.Record, f.Err))
	}
	return merr.ErrorOrNil()
}

// Report summarizes the result.
func (r *Result) Report() *types.EncodeReport {
	report := &types.EncodeReport{
		Processed: r.Processed,
		Succeeded: len(r.Succeeded),
		Lines:     make(map[types.Section]int, len(types.AllSections)),
	}

	for _, s := range types.AllSections {
		report.Lines[s] = len(r.Lines.Section(s))
	}
	for _, f := range r.Failures {
		report.Failures = append(report.Failures, types.RecordFailure{
			Record: f.Record,
			Error:  f.Err.Error(),
		})
	}
	for _, s := range r.Skipped {
		report.Skipped = append(report.Skipped, s.Record)
	}
	return report
}

// Encode encodes the first maxRecords files. Files beyond the limit are
// never read. Records are encoded concurrently but output always follows
// input order.
func (b *Encoder) Encode(ctx context.Context, files []types.RunFile) *Result {
	logger := log.GetLogger(ctx).WithKeyValues("component", "batch")

	res := &Result{}
	if len(files) > b.maxRecords {
		for idx := b.maxRecords; idx < len(files); idx++ {
			skipped := &CapExceededError{Record: files[idx].Name, Index: idx, Cap: b.maxRecords}
			logger.LogKV("Maximum reached, skipping", "record", skipped.Record, "index", idx)
			res.Skipped = append(res.Skipped, skipped)
		}
		files = files[:b.maxRecords]
	}
	res.Processed = len(files)

	outs := make([]lineprotocol.Lines, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for idx := range files {
		idx := idx
		g.Go(func() error {
			outs[idx], errs[idx] = b.encodeOne(files[idx])
			return nil
		})
	}
	_ = g.Wait()

	for idx, f := range files {
		if err := errs[idx]; err != nil {
			logger.ErrorKV(err, "Failed to encode run record", "record", f.Name)
			res.Failures = append(res.Failures, Failure{Record: f.Name, Err: err})
			continue
		}

		logger.LogKV("Encoded run record", "record", f.Name, "lines", outs[idx].Len())
		res.Succeeded = append(res.Succeeded, f.Name)
		res.Lines.Append(outs[idx])
	}
	return res
}

// encodeOne reads f only after it has been taken into the batch.
func (b *Encoder) encodeOne(f types.RunFile) (lineprotocol.Lines, error) {
	data, err := f.Content()
	if err != nil {
		return lineprotocol.Lines{}, err
	}

	r, err := record.Parse(data)
	if err != nil {
		return lineprotocol.Lines{}, err
	}
	return b.enc.Encode(r)
}
