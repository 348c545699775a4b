/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"reflect"

	"github.com/dgraph-io/gqlgen/graphql"
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/golang/glog"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/x"
)

const (
	errExpectedNonNull = "Non-nullable field '%s' (type %s) resolved to null.  " +
		"GraphQL error propagation triggered."

	errCoercion = "Error coercing value '%+v' for field '%s' to type %s."

	errExpectedList = "A single value was resolved, but GraphQL was expecting a list " +
		"for field '%s' (type %s)."
)

// executionContext holds what every field of one operation needs. It is read
// only once built, so fields may be resolved concurrently.
type executionContext struct {
	schema    *ast.Schema
	opCtx     *graphql.OperationContext
	resolvers ResolverFactory
}

func newExecutionContext(s *ast.Schema, op *schema.Operation,
	rf ResolverFactory) *executionContext {

	return &executionContext{
		schema: s,
		opCtx: &graphql.OperationContext{
			RawQuery:      op.Query(),
			Variables:     op.Vars(),
			OperationName: op.Name(),
			Doc:           op.Doc(),
			Operation:     op.Definition(),
		},
		resolvers: rf,
	}
}

// collect flattens fragments and applies @skip and @include for the fields of
// an object of type typ.
func (ec *executionContext) collect(sel ast.SelectionSet,
	typ *ast.Definition) []graphql.CollectedField {

	satisfies := []string{typ.Name}
	for _, iface := range ec.schema.Implements[typ.Name] {
		satisfies = append(satisfies, iface.Name)
	}
	return graphql.CollectFields(ec.opCtx, sel, satisfies)
}

// resolveField runs the resolver for f on parent, a value of type typ, and
// completes the result.
func (ec *executionContext) resolveField(ctx context.Context, typ *ast.Definition,
	parent interface{}, f graphql.CollectedField, parentPath []interface{}) *resolved {

	path := append(copyPath(parentPath), responseName(f))
	res := &resolved{field: f}

	if f.Name == schema.Typename {
		b, err := json.Marshal(typ.Name)
		x.Check(err)
		res.data = b
		return res
	}

	if f.Definition == nil {
		res.errs = x.GqlErrorList{fieldError(x.GqlErrorf("Unknown field %s on type %s.",
			f.Name, typ.Name), f, path)}
		return res
	}

	fn := ec.resolvers.resolverFor(typ.Name, f.Name)
	val, err := fn(ctx, parent, f.ArgumentMap(ec.opCtx.Variables))
	if err != nil {
		res.errs = x.GqlErrorList{fieldError(err, f, path)}
		if f.Definition.Type.NonNull {
			return res
		}
		res.data = []byte("null")
		return res
	}

	res.data, res.errs = ec.completeValue(ctx, path, f, f.Definition.Type, val)
	return res
}

// completeObject resolves the fields of val, a value of type typ, into a JSON
// object. A nil result means a non-null field was null and the object itself
// must be nulled.
func (ec *executionContext) completeObject(ctx context.Context, path []interface{},
	typ *ast.Definition, sel ast.SelectionSet, val interface{}) ([]byte, x.GqlErrorList) {

	var errs x.GqlErrorList
	var buf bytes.Buffer
	comma := ""

	x.Check2(buf.WriteRune('{'))
	for _, f := range ec.collect(sel, typ) {
		res := ec.resolveField(ctx, typ, val, f, path)
		errs = append(errs, res.errs...)

		completed := res.data
		if completed == nil {
			if f.Definition == nil || f.Definition.Type.NonNull {
				return nil, errs
			}
			completed = []byte("null")
		}

		x.Check2(buf.WriteString(comma))
		x.Check2(buf.WriteRune('"'))
		x.Check2(buf.WriteString(responseName(f)))
		x.Check2(buf.WriteString(`": `))
		x.Check2(buf.Write(completed))
		comma = ", "
	}
	x.Check2(buf.WriteRune('}'))

	return buf.Bytes(), errs
}

// completeValue applies the value completion algorithm to a single value, which
// could turn out to be a list or object or scalar value.
func (ec *executionContext) completeValue(ctx context.Context, path []interface{},
	field graphql.CollectedField, typ *ast.Type, val interface{}) ([]byte, x.GqlErrorList) {

	if isNil(val) {
		if !typ.NonNull {
			return []byte("null"), nil
		}
		gqlErr := x.GqlErrorf(errExpectedNonNull, field.Name, typ.String()).
			WithLocations(location(field.Field))
		gqlErr.Path = copyPath(path)
		return nil, x.GqlErrorList{gqlErr}
	}

	if typ.Elem != nil {
		return ec.completeList(ctx, path, field, typ, val)
	}

	def := ec.schema.Types[typ.Name()]
	if def == nil {
		glog.Errorf("Type %s of field %s is missing from the schema", typ.Name(), field.Name)
		return ec.nullOrError(path, field, typ, x.GqlErrorf(errInternal))
	}

	switch def.Kind {
	case ast.Object:
		b, errs := ec.completeObject(ctx, path, def, field.Selections, val)
		if b == nil && !typ.NonNull {
			return []byte("null"), errs
		}
		return b, errs
	case ast.Enum:
		s, err := cast.ToStringE(val)
		if err != nil || def.EnumValues.ForName(s) == nil {
			return ec.nullOrError(path, field, typ,
				x.GqlErrorf(errCoercion, val, field.Name, typ.Name()))
		}
		return marshal(s), nil
	case ast.Scalar:
		coerced, ok := coerceScalar(val, typ.Name())
		if !ok {
			return ec.nullOrError(path, field, typ,
				x.GqlErrorf(errCoercion, val, field.Name, typ.Name()))
		}
		if coerced == nil {
			return ec.completeValue(ctx, path, field, typ, nil)
		}
		return marshal(coerced), nil
	default:
		// No campus field returns an interface or a union.
		return ec.nullOrError(path, field, typ,
			x.GqlErrorf("Abstract type %s is not supported.", typ.Name()))
	}
}

func (ec *executionContext) completeList(ctx context.Context, path []interface{},
	field graphql.CollectedField, typ *ast.Type, val interface{}) ([]byte, x.GqlErrorList) {

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return ec.nullOrError(path, field, typ,
			x.GqlErrorf(errExpectedList, field.Name, typ.String()))
	}

	var buf bytes.Buffer
	var errs x.GqlErrorList
	comma := ""

	x.Check2(buf.WriteRune('['))
	for i := 0; i < rv.Len(); i++ {
		r, err := ec.completeValue(ctx, append(path, i), field, typ.Elem, rv.Index(i).Interface())
		errs = append(errs, err...)
		if r == nil {
			// "If a List type wraps a Non-Null type, and one of the elements of
			// that list resolves to null, then the entire list must resolve to
			// null." The error recording that is already in errs.
			if typ.NonNull {
				return nil, errs
			}
			return []byte("null"), errs
		}
		x.Check2(buf.WriteString(comma))
		x.Check2(buf.Write(r))
		comma = ", "
	}
	x.Check2(buf.WriteRune(']'))

	return buf.Bytes(), errs
}

func (ec *executionContext) nullOrError(path []interface{}, field graphql.CollectedField,
	typ *ast.Type, gqlErr *x.GqlError) ([]byte, x.GqlErrorList) {

	gqlErr = gqlErr.WithLocations(location(field.Field))
	gqlErr.Path = copyPath(path)
	if typ.NonNull {
		return nil, x.GqlErrorList{gqlErr}
	}
	return []byte("null"), x.GqlErrorList{gqlErr}
}

// coerceScalar converts val to the Go type that marshals as the GraphQL scalar
// named typeName. A nil result with ok set means the value is null, as for
// floats that are not numbers.
func coerceScalar(val interface{}, typeName string) (interface{}, bool) {
	switch typeName {
	case "Int":
		i, err := cast.ToInt64E(val)
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return nil, false
		}
		return i, true
	case "Float":
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, true
		}
		return f, true
	case "String", "ID":
		s, err := cast.ToStringE(val)
		if err != nil {
			return nil, false
		}
		return s, true
	case "Boolean":
		b, err := cast.ToBoolE(val)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return val, true
	}
}

func marshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	x.Check(err)
	return b
}

func isNil(val interface{}) bool {
	if val == nil {
		return true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
