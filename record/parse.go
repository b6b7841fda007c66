// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package record

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/lineprotocol"
	"github.com/benchline/benchline/literal"

	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// Parse parses the content of a run file.
//
// Only the top level shape and the date are enforced. Optional fields with
// unexpected types are treated as absent.
func Parse(data []byte) (*types.RunRecord, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if typ := v.Type(); typ != fastjson.TypeObject {
		return nil, &ParseError{Err: fmt.Errorf("top level value is %s, expected object", typ)}
	}

	date, err := parseDate(v.Get("date"))
	if err != nil {
		return nil, err
	}

	r := &types.RunRecord{
		Date:    date,
		Options: parseOptions(v.Get("options")),
		Count:   number(v.Get("count")),
		Total:   number(v.Get("total")),
		Average: number(v.Get("average")),
		Fastest: number(v.Get("fastest")),
		Slowest: number(v.Get("slowest")),
		Rps:     numeric(v.Get("rps")),

		ErrorDist:           parseErrorDist(v.Get("errorDistribution")),
		LatencyDistribution: parseLatencyDistribution(v.Get("latencyDistribution")),
		Histogram:           parseHistogram(v.Get("histogram")),
		Details:             parseDetails(v.Get("details")),
	}
	return r, nil
}

// lit returns v as types.Literal. Nil value is null.
func lit(v *fastjson.Value) types.Literal {
	if v == nil {
		return types.NullLiteral
	}

	var kind types.ValueKind
	switch v.Type() {
	case fastjson.TypeObject:
		kind = types.ValueKindObject
	case fastjson.TypeArray:
		kind = types.ValueKindArray
	case fastjson.TypeString:
		kind = types.ValueKindString
	case fastjson.TypeNumber:
		kind = types.ValueKindNumber
	case fastjson.TypeTrue, fastjson.TypeFalse:
		kind = types.ValueKindBool
	default:
		return types.NullLiteral
	}
	return types.Literal{Kind: kind, Text: literal.Value(v)}
}

func parseOptions(v *fastjson.Value) []types.Option {
	if v == nil {
		return nil
	}

	o, err := v.Object()
	if err != nil {
		return nil
	}

	res := make([]types.Option, 0, o.Len())
	o.Visit(func(key []byte, val *fastjson.Value) {
		res = append(res, types.Option{
			Name:  string(key),
			Value: lit(val),
		})
	})
	return res
}

func parseErrorDist(v *fastjson.Value) map[string]float64 {
	if v == nil {
		return nil
	}

	o, err := v.Object()
	if err != nil {
		return nil
	}

	res := make(map[string]float64, o.Len())
	o.Visit(func(key []byte, val *fastjson.Value) {
		if f := number(val); f != nil {
			res[string(key)] += *f
		}
	})
	return res
}

func parseLatencyDistribution(v *fastjson.Value) []types.LatencyDistribution {
	items, err := array(v)
	if err != nil {
		return nil
	}

	res := make([]types.LatencyDistribution, 0, len(items))
	for _, item := range items {
		p, l := number(item.Get("percentage")), number(item.Get("latency"))
		if p == nil || l == nil || *p != math.Trunc(*p) {
			continue
		}
		res = append(res, types.LatencyDistribution{
			Percentage: int(*p),
			Latency:    *l,
		})
	}
	return res
}

func parseHistogram(v *fastjson.Value) []types.Bucket {
	items, err := array(v)
	if err != nil {
		return nil
	}

	res := make([]types.Bucket, 0, len(items))
	for _, item := range items {
		mark := number(item.Get("mark"))
		if mark == nil {
			continue
		}

		b := types.Bucket{Mark: *mark}
		if c := number(item.Get("count")); c != nil {
			b.Count = *c
		}
		res = append(res, b)
	}
	return res
}

func parseDetails(v *fastjson.Value) []types.Detail {
	items, err := array(v)
	if err != nil {
		return nil
	}

	// entries that aren't objects still take a point
	res := make([]types.Detail, 0, len(items))
	for _, item := range items {
		if item.Type() != fastjson.TypeObject {
			res = append(res, types.Detail{Error: types.NullLiteral, Status: types.NullLiteral})
			continue
		}
		res = append(res, types.Detail{
			Latency: number(item.Get("latency")),
			Error:   lit(item.Get("error")),
			Status:  lit(item.Get("status")),
		})
	}
	return res
}

func array(v *fastjson.Value) ([]*fastjson.Value, error) {
	if v == nil {
		return nil, fmt.Errorf("absent")
	}
	return v.Array()
}

// number returns nil if v isn't a finite number.
func number(v *fastjson.Value) *float64 {
	if v == nil || v.Type() != fastjson.TypeNumber {
		return nil
	}

	f, err := v.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// numeric is like number but also accepts numeric strings.
func numeric(v *fastjson.Value) *float64 {
	if v == nil || v.Type() != fastjson.TypeString {
		return number(v)
	}

	f, err := strconv.ParseFloat(string(v.GetStringBytes()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// dateLayouts are tried in order for string dates. Layouts without zone
// are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// maxDateMillis is the range of ECMAScript time values.
const maxDateMillis = 8.64e15

// parseDate returns the run date. Dates whose points can't be timestamped
// in int64 nanoseconds are invalid.
func parseDate(v *fastjson.Value) (time.Time, error) {
	t, err := parseInstant(v)
	if err != nil {
		return time.Time{}, err
	}
	if !lineprotocol.InRange(t) {
		value := v.String()
		if v.Type() == fastjson.TypeString {
			value = string(v.GetStringBytes())
		}
		return time.Time{}, &InvalidDateError{Value: value}
	}
	return t, nil
}

func parseInstant(v *fastjson.Value) (time.Time, error) {
	if v == nil {
		return time.Time{}, &InvalidDateError{}
	}

	switch v.Type() {
	case fastjson.TypeString:
		s := string(v.GetStringBytes())
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, &InvalidDateError{Value: s}
	case fastjson.TypeNumber:
		ms := number(v)
		if ms == nil || math.Abs(*ms) > maxDateMillis {
			return time.Time{}, &InvalidDateError{Value: v.String()}
		}
		return time.UnixMilli(int64(*ms)).UTC(), nil
	default:
		return time.Time{}, &InvalidDateError{Value: v.String()}
	}
}
