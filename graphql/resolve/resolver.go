/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package resolve executes validated GraphQL operations against a registry of
// field resolvers.
package resolve

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dgraph-io/gqlgen/graphql"
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	otrace "go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hypermodeinc/campus/graphql/api"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/x"
)

const (
	methodResolve = "RequestResolver.Resolve"

	errInternal = "Internal error"
)

// A ResolverFunc resolves one field of parent, an already resolved value of
// the field's enclosing type. args holds the field's arguments with variables
// substituted. For root fields parent is nil.
type ResolverFunc func(ctx context.Context, parent interface{},
	args map[string]interface{}) (interface{}, error)

// A ResolverFactory finds the right resolver for a field of a type.
type ResolverFactory interface {
	resolverFor(typeName, fieldName string) ResolverFunc

	// WithFieldResolver adds the resolver for typeName.fieldName.
	WithFieldResolver(typeName, fieldName string, fn ResolverFunc) ResolverFactory

	// WithTypeResolvers adds resolvers for several fields of typeName.
	WithTypeResolvers(typeName string, fns map[string]ResolverFunc) ResolverFactory

	// WithSchemaIntrospection adds schema introspection capabilities to the factory.
	// So __schema and __type queries can be resolved.
	WithSchemaIntrospection(s *schema.Schema) ResolverFactory
}

type resolverFactory struct {
	resolvers map[string]map[string]ResolverFunc
}

// NewResolverFactory returns a factory without resolvers. Fields without a
// resolver are read from the parent, see AttrResolver.
func NewResolverFactory() ResolverFactory {
	return &resolverFactory{resolvers: make(map[string]map[string]ResolverFunc)}
}

func (rf *resolverFactory) WithFieldResolver(
	typeName, fieldName string, fn ResolverFunc) ResolverFactory {

	fields, ok := rf.resolvers[typeName]
	if !ok {
		fields = make(map[string]ResolverFunc)
		rf.resolvers[typeName] = fields
	}
	fields[fieldName] = fn
	return rf
}

func (rf *resolverFactory) WithTypeResolvers(
	typeName string, fns map[string]ResolverFunc) ResolverFactory {

	for name, fn := range fns {
		rf.WithFieldResolver(typeName, name, fn)
	}
	return rf
}

func (rf *resolverFactory) resolverFor(typeName, fieldName string) ResolverFunc {
	if fn, ok := rf.resolvers[typeName][fieldName]; ok {
		return fn
	}
	return AttrResolver(fieldName)
}

// AttrResolver reads the named attribute of the parent. The parent may be a
// map or expose its attributes through an Attr(name) method.
func AttrResolver(name string) ResolverFunc {
	return func(_ context.Context, parent interface{}, _ map[string]interface{}) (
		interface{}, error) {

		switch p := parent.(type) {
		case interface {
			Attr(name string) (interface{}, bool)
		}:
			v, ok := p.Attr(name)
			if !ok {
				return nil, errors.Errorf("no attribute %s", name)
			}
			return v, nil
		case map[string]interface{}:
			return p[name], nil
		case nil:
			return nil, nil
		}
		return nil, errors.Errorf("no resolver for field %s of %T", name, parent)
	}
}

// RequestResolver can process GraphQL requests and write GraphQL JSON responses.
type RequestResolver struct {
	schema    *schema.Schema
	resolvers ResolverFactory
}

// New creates a new RequestResolver.
func New(s *schema.Schema, resolverFactory ResolverFactory) *RequestResolver {
	return &RequestResolver{
		schema:    s,
		resolvers: resolverFactory,
	}
}

// Schema returns the schema requests are validated against.
func (r *RequestResolver) Schema() *schema.Schema {
	return r.schema
}

// Resolve processes gqlReq and returns a GraphQL response. Resolve records any
// errors in the response's error field.
func (r *RequestResolver) Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response {
	ctx, span := otrace.StartSpan(ctx, methodResolve)
	defer span.End()

	if r == nil {
		glog.Errorf("Call to Resolve with nil RequestResolver")
		return schema.ErrorResponse(errors.New(errInternal))
	}

	if r.schema == nil {
		glog.Errorf("Call to Resolve with no schema")
		return schema.ErrorResponse(errors.New(errInternal))
	}

	startTime := time.Now()
	resp := &schema.Response{
		Extensions: &schema.Extensions{
			Tracing: &schema.Trace{
				Version:   1,
				StartTime: startTime.Format(time.RFC3339Nano),
			},
		},
	}
	defer func() {
		endTime := time.Now()
		resp.Extensions.Tracing.EndTime = endTime.Format(time.RFC3339Nano)
		resp.Extensions.Tracing.Duration = endTime.Sub(startTime).Nanoseconds()
		x.RecordQuery(x.WithMethod(ctx, methodResolve), startTime, len(resp.Errors))
	}()

	op, err := r.schema.Operation(gqlReq)
	if err != nil {
		resp.WithError(err)
		return resp
	}

	if glog.V(3) {
		if !strings.HasPrefix(op.Name(), "IntrospectionQuery") {
			b, err := json.Marshal(gqlReq.Variables)
			if err != nil {
				glog.Infof("Failed to marshal variables for logging : %s", err)
			}
			glog.Infof("Resolving GQL request: \n%s\nWith Variables: \n%s\n",
				gqlReq.Query, string(b))
		}
	}
	span.AddAttributes(otrace.StringAttribute("operation", op.Name()))

	ec := newExecutionContext(r.schema.AST(), op, r.resolvers)
	fields, err := ec.rootFields(op.Definition().SelectionSet, op.Query())
	if err != nil {
		resp.WithError(err)
		return resp
	}

	// Root fields are independent of each other: e.g. an error in one doesn't
	// affect the others, so they run in parallel.
	results := make([]*resolved, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fields {
		g.Go(func() error {
			defer api.PanicHandler(func(err error) {
				results[i] = &resolved{
					field: f,
					errs:  x.GqlErrorList{fieldError(err, f, []interface{}{responseName(f)})},
				}
			}, op.Query())

			if err := gctx.Err(); err != nil {
				results[i] = &resolved{
					field: f,
					errs: x.GqlErrorList{fieldError(errors.Wrapf(err, "request cancelled"),
						f, []interface{}{responseName(f)})},
				}
				return nil
			}
			results[i] = ec.resolveField(gctx, ec.schema.Query, nil, f, nil)
			return nil
		})
	}
	_ = g.Wait()

	// The GraphQL data response needs to be written in the same order as the
	// fields in the request.
	for _, res := range results {
		addResult(resp, res)
	}
	return resp
}

// rootFields collects the top level fields of sel. gqlgen panics on a
// selection set it cannot collect, which is reported as an error instead.
func (ec *executionContext) rootFields(sel ast.SelectionSet, query string) (
	fields []graphql.CollectedField, err error) {

	defer api.PanicHandler(func(perr error) {
		fields, err = nil, perr
	}, query)
	return ec.collect(sel, ec.schema.Query), nil
}

// resolved is one completed field: the JSON of its value, nil when the value
// was nulled out by an error on a non-null field.
type resolved struct {
	field graphql.CollectedField
	data  []byte
	errs  x.GqlErrorList
}

func addResult(resp *schema.Response, res *resolved) {
	if res == nil {
		return
	}
	resp.WithError(res.errs)
	if res.data == nil {
		if res.field.Definition != nil && res.field.Definition.Type.NonNull {
			resp.SetDataNull()
			return
		}
		res.data = []byte("null")
	}

	var buf strings.Builder
	x.Check2(buf.WriteString(`"`))
	x.Check2(buf.WriteString(responseName(res.field)))
	x.Check2(buf.WriteString(`": `))
	x.Check2(buf.Write(res.data))
	resp.AddData([]byte(buf.String()))
}

func responseName(f graphql.CollectedField) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func fieldError(err error, f graphql.CollectedField, path []interface{}) *x.GqlError {
	gqlErr := schema.AsGQLErrors(err)[0]
	if f.Field != nil && f.Position != nil && len(gqlErr.Locations) == 0 {
		gqlErr = gqlErr.WithLocations(location(f.Field))
	}
	if len(gqlErr.Path) == 0 {
		gqlErr.Path = copyPath(path)
	}
	return gqlErr
}

func location(f *ast.Field) x.Location {
	return x.Location{Line: f.Position.Line, Column: f.Position.Column}
}

func copyPath(path []interface{}) []interface{} {
	result := make([]interface{}, len(path))
	copy(result, path)
	return result
}
