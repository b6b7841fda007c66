// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"time"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/literal"
)

// BuildTags derives the base tag set from run options, followed by extra.
//
// Scalar values become their JSON literal. Object and array values become
// their JSON text encoded again as a JSON string, so quotes, commas and
// spaces inside never reach the line unquoted.
func BuildTags(options []types.Option, extra ...Tag) []Tag {
	res := make([]Tag, 0, len(options)+len(extra))
	for _, opt := range options {
		res = append(res, Tag{Key: opt.Name, Value: TagValue(opt.Value)})
	}
	return append(res, extra...)
}

// TagValue renders one option value as tag value.
func TagValue(v types.Literal) string {
	if v.Structured() {
		return literal.String(v.Text)
	}
	return v.Text
}

// HasErrorsTag returns hasErrors=true|false.
func HasErrorsTag(hasErrors bool) Tag {
	v := "false"
	if hasErrors {
		v = "true"
	}
	return Tag{Key: "hasErrors", Value: v}
}

// DateTag returns date="<RFC3339 with nanoseconds>" in UTC.
func DateTag(date time.Time) Tag {
	return Tag{Key: "date", Value: `"` + date.UTC().Format(time.RFC3339Nano) + `"`}
}

// MarkTags returns the bucket mark in seconds, milliseconds and
// nanoseconds.
func MarkTags(markSeconds float64) []Tag {
	return []Tag{
		{Key: "mark_s", Value: literal.Number(markSeconds)},
		{Key: "mark_ms", Value: literal.Number(markSeconds * 1000)},
		{Key: "mark_ns", Value: literal.Number(markSeconds * 1000000000)},
	}
}

// withTags returns a new slice holding base followed by tags.
func withTags(base []Tag, tags ...Tag) []Tag {
	res := make([]Tag, 0, len(base)+len(tags))
	res = append(res, base...)
	return append(res, tags...)
}
