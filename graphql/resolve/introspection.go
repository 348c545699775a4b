/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"

	"github.com/dgraph-io/gqlgen/graphql/introspection"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/campus/graphql/schema"
)

type args = map[string]interface{}

func (rf *resolverFactory) WithSchemaIntrospection(s *schema.Schema) ResolverFactory {
	sch := s.AST()

	rf.WithTypeResolvers(sch.Query.Name, map[string]ResolverFunc{
		"__schema": func(context.Context, interface{}, args) (interface{}, error) {
			return introspection.WrapSchema(sch), nil
		},
		"__type": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			def := sch.Types[cast.ToString(a["name"])]
			if def == nil {
				return nil, nil
			}
			return introspection.WrapTypeFromDef(sch, def), nil
		},
	})

	rf.WithTypeResolvers("__Schema", map[string]ResolverFunc{
		"description": introspect(func(*introspection.Schema, args) interface{} {
			return nil
		}),
		"types": introspect(func(s *introspection.Schema, _ args) interface{} {
			return typeRefs(s.Types())
		}),
		"queryType": introspect(func(s *introspection.Schema, _ args) interface{} {
			return s.QueryType()
		}),
		"mutationType": introspect(func(s *introspection.Schema, _ args) interface{} {
			return s.MutationType()
		}),
		"subscriptionType": introspect(func(s *introspection.Schema, _ args) interface{} {
			return s.SubscriptionType()
		}),
		"directives": introspect(func(s *introspection.Schema, _ args) interface{} {
			ds := s.Directives()
			out := make([]*introspection.Directive, 0, len(ds))
			for i := range ds {
				out = append(out, &ds[i])
			}
			return out
		}),
	})

	rf.WithTypeResolvers("__Type", map[string]ResolverFunc{
		"kind": introspect(func(t *introspection.Type, _ args) interface{} {
			return t.Kind()
		}),
		"name": introspect(func(t *introspection.Type, _ args) interface{} {
			return t.Name()
		}),
		"description": introspect(func(t *introspection.Type, _ args) interface{} {
			return t.Description()
		}),
		"fields": introspect(func(t *introspection.Type, a args) interface{} {
			fs := t.Fields(cast.ToBool(a["includeDeprecated"]))
			if fs == nil {
				return nil
			}
			out := make([]*introspection.Field, 0, len(fs))
			for i := range fs {
				out = append(out, &fs[i])
			}
			return out
		}),
		"interfaces": introspect(func(t *introspection.Type, _ args) interface{} {
			return typeRefs(t.Interfaces())
		}),
		"possibleTypes": introspect(func(t *introspection.Type, _ args) interface{} {
			return typeRefs(t.PossibleTypes())
		}),
		"enumValues": introspect(func(t *introspection.Type, a args) interface{} {
			evs := t.EnumValues(cast.ToBool(a["includeDeprecated"]))
			if evs == nil {
				return nil
			}
			out := make([]*introspection.EnumValue, 0, len(evs))
			for i := range evs {
				out = append(out, &evs[i])
			}
			return out
		}),
		"inputFields": introspect(func(t *introspection.Type, _ args) interface{} {
			return inputValueRefs(t.InputFields())
		}),
		"ofType": introspect(func(t *introspection.Type, _ args) interface{} {
			return t.OfType()
		}),
		"specifiedByURL": introspect(func(*introspection.Type, args) interface{} {
			return nil
		}),
	})

	rf.WithTypeResolvers("__Field", map[string]ResolverFunc{
		"name": introspect(func(f *introspection.Field, _ args) interface{} {
			return f.Name
		}),
		"description": introspect(func(f *introspection.Field, _ args) interface{} {
			return f.Description
		}),
		"args": introspect(func(f *introspection.Field, _ args) interface{} {
			return inputValueRefs(f.Args)
		}),
		"type": introspect(func(f *introspection.Field, _ args) interface{} {
			return f.Type
		}),
		"isDeprecated": introspect(func(f *introspection.Field, _ args) interface{} {
			return f.IsDeprecated()
		}),
		"deprecationReason": introspect(func(f *introspection.Field, _ args) interface{} {
			return f.DeprecationReason()
		}),
	})

	rf.WithTypeResolvers("__InputValue", map[string]ResolverFunc{
		"name": introspect(func(iv *introspection.InputValue, _ args) interface{} {
			return iv.Name
		}),
		"description": introspect(func(iv *introspection.InputValue, _ args) interface{} {
			return iv.Description
		}),
		"type": introspect(func(iv *introspection.InputValue, _ args) interface{} {
			return iv.Type
		}),
		"defaultValue": introspect(func(iv *introspection.InputValue, _ args) interface{} {
			return iv.DefaultValue
		}),
	})

	rf.WithTypeResolvers("__EnumValue", map[string]ResolverFunc{
		"name": introspect(func(ev *introspection.EnumValue, _ args) interface{} {
			return ev.Name
		}),
		"description": introspect(func(ev *introspection.EnumValue, _ args) interface{} {
			return ev.Description
		}),
		"isDeprecated": introspect(func(ev *introspection.EnumValue, _ args) interface{} {
			return ev.IsDeprecated()
		}),
		"deprecationReason": introspect(func(ev *introspection.EnumValue, _ args) interface{} {
			return ev.DeprecationReason()
		}),
	})

	rf.WithTypeResolvers("__Directive", map[string]ResolverFunc{
		"name": introspect(func(d *introspection.Directive, _ args) interface{} {
			return d.Name
		}),
		"description": introspect(func(d *introspection.Directive, _ args) interface{} {
			return d.Description
		}),
		"locations": introspect(func(d *introspection.Directive, _ args) interface{} {
			return d.Locations
		}),
		"args": introspect(func(d *introspection.Directive, _ args) interface{} {
			return inputValueRefs(d.Args)
		}),
		"isRepeatable": introspect(func(*introspection.Directive, args) interface{} {
			return false
		}),
	})

	return rf
}

// introspect adapts a function over one introspection type into a ResolverFunc.
func introspect[T any](fn func(T, args) interface{}) ResolverFunc {
	return func(_ context.Context, parent interface{}, a args) (interface{}, error) {
		p, ok := parent.(T)
		if !ok {
			return nil, nil
		}
		return fn(p, a), nil
	}
}

func typeRefs(ts []introspection.Type) []*introspection.Type {
	if ts == nil {
		return nil
	}
	out := make([]*introspection.Type, 0, len(ts))
	for i := range ts {
		out = append(out, &ts[i])
	}
	return out
}

func inputValueRefs(ivs []introspection.InputValue) []*introspection.InputValue {
	if ivs == nil {
		return nil
	}
	out := make([]*introspection.InputValue, 0, len(ivs))
	for i := range ivs {
		out = append(out, &ivs[i])
	}
	return out
}
