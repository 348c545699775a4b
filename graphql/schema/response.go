/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/campus/x"
)

// GraphQL spec on response is here:
// https://spec.graphql.org/October2021/#sec-Response

// Response represents a GraphQL response
type Response struct {
	Errors     x.GqlErrorList
	Data       bytes.Buffer
	Extensions *Extensions
}

// Extensions represents GraphQL extensions
type Extensions struct {
	Tracing *Trace `json:"tracing,omitempty"`
}

// Trace records the timing of one request, in the Apollo tracing format.
type Trace struct {
	Version   int    `json:"version"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int64  `json:"duration"`
}

// ErrorResponse formats an error as a list of GraphQL errors and builds
// a response with that error list and no data.
func ErrorResponse(err error) *Response {
	return &Response{
		Errors: AsGQLErrors(err),
	}
}

// WithError generates GraphQL errors from err and records those in r.
func (r *Response) WithError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, AsGQLErrors(err)...)
}

// AddData adds p to r's data buffer.
//
// If p is empty or r.SetDataNull() has been called earlier, the call has no effect.
//
// If r.Data is empty before the call, then r.Data becomes {p}.
// If r.Data contains data it always looks like {f,g,...}, and
// adding to that results in {f,g,...,p}.
func (r *Response) AddData(p []byte) {
	if r == nil || len(p) == 0 || r.dataIsNull() {
		return
	}

	if r.Data.Len() > 0 {
		// The end of the buffer is always the closing `}`
		r.Data.Truncate(r.Data.Len() - 1)
		x.Check2(r.Data.WriteRune(','))
	}

	if r.Data.Len() == 0 {
		x.Check2(r.Data.WriteRune('{'))
	}

	x.Check2(r.Data.Write(p))
	x.Check2(r.Data.WriteRune('}'))
}

// SetDataNull makes the data of the whole response null, as required when a
// non-null top level field resolves to null.
func (r *Response) SetDataNull() {
	r.Data.Reset()
	x.Check2(r.Data.WriteString("null"))
}

// dataIsNull reports whether SetDataNull was called.
func (r *Response) dataIsNull() bool {
	return bytes.Equal(r.Data.Bytes(), []byte("null"))
}

// WriteTo writes the GraphQL response as unindented JSON to w
// and returns the number of bytes written and error, if any.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	js, err := json.Marshal(r.Output())
	if err != nil {
		msg := "Internal error - failed to marshal a valid JSON response"
		glog.Errorf("%+v", errors.Wrap(err, msg))
		js = []byte(`{ "errors": [ { "message": "` + msg + `" } ], "data": null }`)
	}

	i, err := w.Write(js)
	return int64(i), err
}

// Output returns the response as a value ready to be marshalled to JSON, for
// embedding into other responses.
func (r *Response) Output() interface{} {
	if r == nil {
		return struct {
			Errors x.GqlErrorList  `json:"errors,omitempty"`
			Data   json.RawMessage `json:"data"`
		}{
			Errors: x.GqlErrorList{{Message: "Internal error - no response to write."}},
			Data:   json.RawMessage("null"),
		}
	}

	return struct {
		Errors     x.GqlErrorList  `json:"errors,omitempty"`
		Data       json.RawMessage `json:"data,omitempty"`
		Extensions *Extensions     `json:"extensions,omitempty"`
	}{
		Errors:     r.Errors,
		Data:       r.Data.Bytes(),
		Extensions: r.Extensions,
	}
}
