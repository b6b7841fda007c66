// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package types

import "time"

// ValueKind is the JSON kind of an option or detail value.
type ValueKind string

const (
	// ValueKindNull is JSON null.
	ValueKindNull ValueKind = "null"
	// ValueKindBool is JSON true or false.
	ValueKindBool ValueKind = "bool"
	// ValueKindNumber is JSON number.
	ValueKindNumber ValueKind = "number"
	// ValueKindString is JSON string.
	ValueKindString ValueKind = "string"
	// ValueKindObject is JSON object.
	ValueKindObject ValueKind = "object"
	// ValueKindArray is JSON array.
	ValueKindArray ValueKind = "array"
)

// Literal is a value as it appeared in the run file, kept as canonical
// compact JSON text.
type Literal struct {
	// Kind is the JSON kind of the value.
	Kind ValueKind
	// Text is the canonical JSON text. Object keys keep document order.
	Text string
}

// Structured returns true if the value is an object or an array.
func (l Literal) Structured() bool {
	return l.Kind == ValueKindObject || l.Kind == ValueKindArray
}

// NullLiteral is the literal used when a value is absent.
var NullLiteral = Literal{Kind: ValueKindNull, Text: "null"}

// Option is one entry of the run's options object.
type Option struct {
	// Name is the option key.
	Name string
	// Value is the option value.
	Value Literal
}

// LatencyDistribution is one entry of the latency distribution.
type LatencyDistribution struct {
	// Percentage is the percentile. Only integral values are kept.
	Percentage int
	// Latency is the latency at that percentile.
	Latency float64
}

// Bucket is one bin of the latency histogram.
type Bucket struct {
	// Mark is the upper bound of the bucket in seconds.
	Mark float64
	// Count is the number of samples in the bucket as given in the run
	// file. It's not necessarily integral.
	Count float64
}

// Detail is the result of a single request.
type Detail struct {
	// Latency is nil when the detail carries no numeric latency.
	Latency *float64
	// Error is the request error, opaque JSON. It's null on success.
	Error Literal
	// Status is the request status, opaque JSON.
	Status Literal
}

// RunRecord is the parsed result of one load-test run.
//
// Aggregate statistics are nil when they are absent from the input or are
// not numbers.
type RunRecord struct {
	// Date is when the run happened.
	Date time.Time
	// Options keeps the options object entries in document order.
	Options []Option

	Count   *float64
	Total   *float64
	Average *float64
	Fastest *float64
	Slowest *float64
	Rps     *float64

	// ErrorDist maps error description to occurrence count. It's nil when
	// the run has no errorDistribution object.
	ErrorDist map[string]float64

	LatencyDistribution []LatencyDistribution
	Histogram           []Bucket
	Details             []Detail
}

// Percentile returns the latency recorded for percentage p. The first
// matching entry wins.
func (r *RunRecord) Percentile(p int) (float64, bool) {
	for _, l := range r.LatencyDistribution {
		if l.Percentage == p {
			return l.Latency, true
		}
	}
	return 0, false
}

// ErrorCount returns the sum of all errorDistribution values.
func (r *RunRecord) ErrorCount() float64 {
	total := 0.0
	for _, c := range r.ErrorDist {
		total += c
	}
	return total
}

// HasErrors returns whether run has any errors.
func (r *RunRecord) HasErrors() bool {
	return r.ErrorCount() != 0
}

// RunFile is one candidate run file.
type RunFile struct {
	// Name identifies the file in diagnostics.
	Name string
	// Data is the file's content.
	Data []byte
	// Load reads the content when Data is nil.
	Load func() ([]byte, error)
}

// Content returns Data, or the result of Load if Data is nil.
func (f RunFile) Content() ([]byte, error) {
	if f.Data != nil || f.Load == nil {
		return f.Data, nil
	}
	return f.Load()
}
