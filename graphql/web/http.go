/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package web serves campus GraphQL over HTTP.
package web

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/hypermodeinc/campus/graphql/api"
	"github.com/hypermodeinc/campus/graphql/resolve"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/x"
)

// An IServeGraphQL can serve a GraphQL endpoint (currently only on http)
type IServeGraphQL interface {

	// After ServeGQL is called, this IServeGraphQL serves the new resolvers.
	ServeGQL(resolver *resolve.RequestResolver)

	// HTTPHandler returns a http.Handler that serves GraphQL.
	HTTPHandler() http.Handler

	// Resolve processes a GQL Request using the correct resolver and returns a GQL Response
	Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response
}

type graphqlHandler struct {
	resolver *resolve.RequestResolver
	audit    *x.Logger
	handler  http.Handler
}

// NewServer returns a new IServeGraphQL that can serve the given resolvers.
// Requests are written to audit when it is not nil.
func NewServer(resolver *resolve.RequestResolver, audit *x.Logger) IServeGraphQL {
	gh := &graphqlHandler{resolver: resolver, audit: audit}
	gh.handler = recoveryHandler(commonHeaders(gh))
	return gh
}

func (gh *graphqlHandler) HTTPHandler() http.Handler {
	return gh.handler
}

func (gh *graphqlHandler) ServeGQL(resolver *resolve.RequestResolver) {
	gh.resolver = resolver
}

func (gh *graphqlHandler) Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response {
	return gh.resolver.Resolve(ctx, gqlReq)
}

var errMethodNotAllowed = errors.New(
	"Unrecognised request method.  Please use GET or POST for GraphQL requests")

// write chooses between the http response writer and gzip writer
// and sends the schema response using that.
func write(w http.ResponseWriter, rr *schema.Response, status int, acceptGzip bool) {
	var out io.Writer = w

	// If the receiver accepts gzip, then we would update the writer
	// and send gzipped content instead.
	if acceptGzip {
		w.Header().Set("Content-Encoding", "gzip")
		gzw := gzip.NewWriter(w)
		defer func() { _ = gzw.Close() }()
		out = gzw
	}
	w.WriteHeader(status)

	if _, err := rr.WriteTo(out); err != nil {
		glog.Error(err)
	}
}

// ServeHTTP handles GraphQL queries. It writes a valid GraphQL JSON response
// to w.
func (gh *graphqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "handler")
	defer span.End()

	if !gh.isValid() {
		panic("graphqlHandler not initialised")
	}

	if r.Method == http.MethodOptions {
		// CORS preflight, the headers are already set.
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	var res *schema.Response
	status := http.StatusOK
	gqlReq, err := getRequest(r)

	switch {
	case errors.Is(err, errMethodNotAllowed):
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		status = http.StatusMethodNotAllowed
		res = schema.ErrorResponse(err)
	case err != nil:
		status = http.StatusBadRequest
		res = schema.ErrorResponse(err)
	default:
		res = gh.resolver.Resolve(ctx, gqlReq)
	}

	write(w, res, status, strings.Contains(r.Header.Get("Accept-Encoding"), "gzip"))
	gh.auditRequest(r, gqlReq, res, start)
}

func (gh *graphqlHandler) auditRequest(r *http.Request, gqlReq *schema.Request,
	res *schema.Response, start time.Time) {

	if gh.audit == nil {
		return
	}
	kvs := []interface{}{
		"request_id", uuid.NewString(),
		"remote", r.RemoteAddr,
		"method", r.Method,
		"errors", len(res.Errors),
		"latency_ms", x.SinceMs(start),
	}
	if gqlReq != nil {
		kvs = append(kvs, "operation", gqlReq.OperationName, "query", gqlReq.Query)
	}
	if len(res.Errors) > 0 {
		gh.audit.AuditE("graphql", kvs...)
		return
	}
	gh.audit.AuditI("graphql", kvs...)
}

func (gh *graphqlHandler) isValid() bool {
	return !(gh == nil || gh.resolver == nil)
}

type gzreadCloser struct {
	*gzip.Reader
	io.Closer
}

func (gz gzreadCloser) Close() error {
	err := gz.Reader.Close()
	if err != nil {
		return err
	}
	return gz.Closer.Close()
}

func getRequest(r *http.Request) (*schema.Request, error) {
	gqlReq := &schema.Request{}

	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "Unable to parse gzip")
		}
		r.Body = gzreadCloser{zr, r.Body}
	}

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		gqlReq.Query = query.Get("query")
		gqlReq.OperationName = query.Get("operationName")
		variables, ok := query["variables"]
		if ok && variables[0] != "" {
			d := json.NewDecoder(strings.NewReader(variables[0]))
			d.UseNumber()

			if err := d.Decode(&gqlReq.Variables); err != nil {
				return nil, errors.Wrap(err, "Not a valid GraphQL request body")
			}
		}
	case http.MethodPost:
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse media type")
		}

		switch mediaType {
		case "application/json":
			d := json.NewDecoder(r.Body)
			d.UseNumber()
			if err = d.Decode(&gqlReq); err != nil {
				return nil, errors.Wrap(err, "Not a valid GraphQL request body")
			}
		case "application/graphql":
			body, err := io.ReadAll(r.Body)
			if err != nil {
				return nil, errors.Wrap(err, "Could not read GraphQL request body")
			}
			gqlReq.Query = string(body)
		default:
			// https://graphql.org/learn/serving-over-http/#post-request says:
			// "A standard GraphQL POST request should use the application/json
			// content type ..."
			return nil, errors.New(
				"Unrecognised Content-Type.  Please use application/json or application/graphql for GraphQL requests")
		}
	default:
		return nil, errMethodNotAllowed
	}

	return gqlReq, nil
}

func commonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		x.AddCorsHeaders(w)
		w.Header().Set("Content-Type", "application/json")

		next.ServeHTTP(w, r)
	})
}

func recoveryHandler(next http.Handler) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer api.PanicHandler(
			func(err error) {
				rr := schema.ErrorResponse(err)
				write(w, rr, http.StatusOK,
					strings.Contains(r.Header.Get("Accept-Encoding"), "gzip"))
			}, r.URL.RawQuery)

		next.ServeHTTP(w, r)
	})
}
