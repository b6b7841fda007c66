// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/literal"
)

// Lines holds encoded lines per section in emission order.
type Lines struct {
	Summary   []string
	Histogram []string
	Details   []string
}

// Append appends o's lines after l's.
func (l *Lines) Append(o Lines) {
	l.Summary = append(l.Summary, o.Summary...)
	l.Histogram = append(l.Histogram, o.Histogram...)
	l.Details = append(l.Details, o.Details...)
}

// Section returns the lines of section s.
func (l *Lines) Section(s types.Section) []string {
	switch s {
	case types.SectionSummary:
		return l.Summary
	case types.SectionHistogram:
		return l.Histogram
	case types.SectionDetails:
		return l.Details
	default:
		return nil
	}
}

// Len returns the total number of lines.
func (l *Lines) Len() int {
	return len(l.Summary) + len(l.Histogram) + len(l.Details)
}

// Encoder renders run records into line protocol.
type Encoder struct {
	measurements  types.Measurements
	histogramMode types.HistogramMode
	sections      []types.Section
	extraTags     []Tag
}

// NewEncoder returns an Encoder configured by spec. Static tags are added
// in key order.
func NewEncoder(spec types.EncodeProfileSpec) (*Encoder, error) {
	if err := spec.HistogramMode.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Measurements.Validate(); err != nil {
		return nil, fmt.Errorf("measurements: %w", err)
	}

	keys := make([]string, 0, len(spec.Tags))
	for k := range spec.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	extra := make([]Tag, 0, len(keys))
	for _, k := range keys {
		extra = append(extra, Tag{Key: k, Value: literal.String(spec.Tags[k])})
	}

	return &Encoder{
		measurements:  spec.Measurements,
		histogramMode: spec.HistogramMode,
		sections:      spec.EnabledSections(),
		extraTags:     extra,
	}, nil
}

// Encode renders every enabled section of r. It fails when r's points
// can't be timestamped.
func (e *Encoder) Encode(r *types.RunRecord) (Lines, error) {
	if !InRange(r.Date) {
		return Lines{}, fmt.Errorf("%s: %w", r.Date.UTC().Format(time.RFC3339Nano), ErrDateOutOfRange)
	}

	var res Lines
	for _, s := range e.sections {
		switch s {
		case types.SectionSummary:
			res.Summary = []string{e.Summary(r).Line()}
		case types.SectionHistogram:
			points, err := e.Histogram(r)
			if err != nil {
				return Lines{}, err
			}
			res.Histogram = lines(points)
		case types.SectionDetails:
			points, err := e.Details(r)
			if err != nil {
				return Lines{}, err
			}
			res.Details = lines(points)
		}
	}
	return res, nil
}

func (e *Encoder) baseTags(r *types.RunRecord) []Tag {
	return BuildTags(r.Options, e.extraTags...)
}

// Summary returns the run's single summary point at the run date.
//
// Absent statistics are left out. The errors field is always present.
func (e *Encoder) Summary(r *types.RunRecord) Point {
	fields := make([]Field, 0, 9)
	addNumber := func(key string, v *float64) {
		if v != nil {
			fields = append(fields, Field{Key: key, Value: literal.Number(*v)})
		}
	}

	addNumber("count", r.Count)
	addNumber("total", r.Total)
	addNumber("average", r.Average)
	addNumber("fastest", r.Fastest)
	addNumber("slowest", r.Slowest)
	if r.Rps != nil {
		fields = append(fields, Field{Key: "rps", Value: literal.Fixed(*r.Rps, 2)})
	}

	// zero latency means no data
	if median, ok := r.Percentile(50); ok && median != 0 {
		addNumber("median", &median)
	}
	if p95, ok := r.Percentile(95); ok && p95 != 0 {
		addNumber("p95", &p95)
	}

	errCount := r.ErrorCount()
	fields = append(fields, Field{Key: "errors", Value: literal.Number(errCount)})

	return Point{
		Measurement: e.measurements.Summary,
		Tags:        withTags(e.baseTags(r), HasErrorsTag(errCount != 0), DateTag(r.Date)),
		Fields:      fields,
		Timestamp:   r.Date.UnixNano(),
	}
}

// Histogram returns histogram points in bucket order, one tick apart.
func (e *Encoder) Histogram(r *types.RunRecord) ([]Point, error) {
	if len(r.Histogram) == 0 {
		return nil, nil
	}

	total := float64(len(r.Histogram))
	if e.histogramMode == types.HistogramModeSample {
		total = 0
		for _, b := range r.Histogram {
			total += samples(b.Count)
		}
	}
	if total > MaxTicks {
		return nil, &TooManyPointsError{Section: types.SectionHistogram, Points: total}
	}

	base := e.baseTags(r)
	seq := NewSequencer(r.Date)

	res := make([]Point, 0, int(total))
	for _, b := range r.Histogram {
		tags := withTags(base, MarkTags(b.Mark)...)

		switch e.histogramMode {
		case types.HistogramModeSample:
			field := Field{Key: "mark", Value: literal.Number(b.Mark)}
			for c := samples(b.Count); c > 0; c-- {
				res = append(res, Point{
					Measurement: e.measurements.Histogram,
					Tags:        tags,
					Fields:      []Field{field},
					Timestamp:   seq.Next(),
				})
			}
		default:
			res = append(res, Point{
				Measurement: e.measurements.Histogram,
				Tags:        tags,
				Fields:      []Field{{Key: "count", Value: literal.Number(b.Count)}},
				Timestamp:   seq.Next(),
			})
		}
	}
	return res, nil
}

// samples returns how many sample points a bucket count expands to: the
// count rounded up, or zero if it isn't positive.
func samples(count float64) float64 {
	if math.IsNaN(count) || count <= 0 {
		return 0
	}
	return math.Ceil(count)
}

// Details returns one point per request in input order, one tick apart.
func (e *Encoder) Details(r *types.RunRecord) ([]Point, error) {
	if len(r.Details) == 0 {
		return nil, nil
	}
	if len(r.Details) > MaxTicks {
		return nil, &TooManyPointsError{Section: types.SectionDetails, Points: float64(len(r.Details))}
	}

	tags := e.baseTags(r)
	seq := NewSequencer(r.Date)

	res := make([]Point, 0, len(r.Details))
	for _, d := range r.Details {
		fields := make([]Field, 0, 3)
		if d.Latency != nil {
			fields = append(fields, Field{Key: "latency", Value: literal.Number(*d.Latency)})
		}
		fields = append(fields,
			Field{Key: "error", Value: d.Error.Text},
			Field{Key: "status", Value: d.Status.Text},
		)

		res = append(res, Point{
			Measurement: e.measurements.Details,
			Tags:        tags,
			Fields:      fields,
			Timestamp:   seq.Next(),
		})
	}
	return res, nil
}

func lines(points []Point) []string {
	if len(points) == 0 {
		return nil
	}

	res := make([]string, 0, len(points))
	for _, p := range points {
		res = append(res, p.Line())
	}
	return res
}
