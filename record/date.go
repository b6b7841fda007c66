// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package record

import (
	"fmt"
	"time"

	"github.com/benchline/benchline/literal"

	"github.com/valyala/fastjson"
)

// ISODateLayout matches Date.prototype.toISOString.
const ISODateLayout = "2006-01-02T15:04:05.000Z07:00"

// SetDate replaces the date of the run file content with date. Every other
// field is kept in document order.
func SetDate(data []byte, date time.Time) ([]byte, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if typ := v.Type(); typ != fastjson.TypeObject {
		return nil, &ParseError{Err: fmt.Errorf("top level value is %s, expected object", typ)}
	}

	var arena fastjson.Arena
	v.Set("date", arena.NewString(date.UTC().Format(ISODateLayout)))
	return literal.AppendValue(nil, v), nil
}
