// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package lineprotocol

import (
	"strconv"
	"strings"
)

// Tag is an indexed key/value pair of a point.
type Tag struct {
	Key   string
	Value string
}

// String returns key=value.
func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Field is a value-bearing key/value pair of a point.
type Field struct {
	Key   string
	Value string
}

// String returns key=value.
func (f Field) String() string {
	return f.Key + "=" + f.Value
}

// Point is one time-series point.
//
// Keys and values are written as they are. Callers render values with the
// literal package so no further escaping is needed.
type Point struct {
	Measurement string
	Tags        []Tag
	Fields      []Field
	// Timestamp is in nanoseconds.
	Timestamp int64
}

// Line renders the point as line protocol without line terminator:
//
//	<measurement>[,<tag>=<value>...] <field>=<value>[,<field>=<value>...] <timestamp>
func (p Point) Line() string {
	var b strings.Builder
	b.WriteString(p.Measurement)
	for _, t := range p.Tags {
		b.WriteByte(',')
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}

	b.WriteByte(' ')
	for i, f := range p.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}

	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(p.Timestamp, 10))
	return b.String()
}
