// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

// Package literal renders values the way downstream line-protocol parsers
// expect them: numbers in shortest round-trip form using JavaScript's
// Number-to-string layout and strings as JSON string literals.
package literal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

// json doesn't escape <, > and & so that output matches JSON.stringify.
var json = jsoniter.Config{EscapeHTML: false}.Froze()

// String returns s as a JSON string literal.
func String(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		// unreachable for string input
		return strconv.Quote(s)
	}
	return string(data)
}

// Number returns the shortest text that parses back to f, laid out like
// JavaScript's Number.prototype.toString.
func Number(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// d.ddddde±XX
	mantissa, expStr, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expStr)

	k := len(digits)
	n := exp + 1 // position of the decimal point

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String()
}

// Fixed formats f with exactly prec digits after the decimal point. Exact
// ties round away from zero, as Number.prototype.toFixed does.
func Fixed(f float64, prec int) string {
	if f == 0 {
		// drop the sign of negative zero
		f = 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || prec < 0 {
		return strconv.FormatFloat(f, 'f', prec, 64)
	}

	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(prec)), nil))
	scaled := new(big.Float).SetPrec(256).SetFloat64(f)
	scaled.Mul(scaled, scale)

	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetPrec(256).SetInt(whole))
	frac.Abs(frac)
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return strconv.FormatFloat(f, 'f', prec, 64)
	}

	if f > 0 {
		whole.Add(whole, big.NewInt(1))
	} else {
		whole.Sub(whole, big.NewInt(1))
	}
	return insertPoint(whole, prec, f < 0)
}

// insertPoint renders v / 10^prec.
func insertPoint(v *big.Int, prec int, negative bool) string {
	digits := new(big.Int).Abs(v).String()
	if len(digits) <= prec {
		digits = strings.Repeat("0", prec-len(digits)+1) + digits
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	intPart := len(digits) - prec
	b.WriteString(digits[:intPart])
	if prec > 0 {
		b.WriteByte('.')
		b.WriteString(digits[intPart:])
	}
	return b.String()
}

// Value returns the canonical compact JSON text of v. Object keys keep
// document order.
func Value(v *fastjson.Value) string {
	return string(AppendValue(nil, v))
}

// AppendValue appends the canonical compact JSON text of v to dst.
func AppendValue(dst []byte, v *fastjson.Value) []byte {
	if v == nil {
		return append(dst, "null"...)
	}

	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		dst = append(dst, '{')
		first := true
		o.Visit(func(key []byte, val *fastjson.Value) {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = append(dst, String(string(key))...)
			dst = append(dst, ':')
			dst = AppendValue(dst, val)
		})
		return append(dst, '}')
	case fastjson.TypeArray:
		items, _ := v.Array()
		dst = append(dst, '[')
		for i, item := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendValue(dst, item)
		}
		return append(dst, ']')
	case fastjson.TypeString:
		return append(dst, String(string(v.GetStringBytes()))...)
	case fastjson.TypeNumber:
		f := v.GetFloat64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return append(dst, "null"...)
		}
		return append(dst, Number(f)...)
	case fastjson.TypeTrue:
		return append(dst, "true"...)
	case fastjson.TypeFalse:
		return append(dst, "false"...)
	default:
		return append(dst, "null"...)
	}
}
