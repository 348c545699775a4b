/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/campus/x"
)

func TestCampusSchemaLoads(t *testing.T) {
	s, err := Campus(0)
	require.NoError(t, err)
	defer s.Close()

	query := s.AST().Query
	require.NotNil(t, query)
	require.Equal(t, "Query", query.Name)
	for _, f := range []string{"id", "instructors", "students", "courses", "grades",
		"instructor", "student", "course", "grade", "levels", "gradeLetters"} {
		require.NotNil(t, query.Fields.ForName(f), "Query.%s", f)
	}
	require.Nil(t, s.AST().Mutation)
	require.Len(t, s.AST().Implements["Query"], 1)
	require.Equal(t, "Node", s.AST().Implements["Query"][0].Name)
	require.Equal(t, SDL(), s.String())
	require.True(t, strings.Contains(SDL(), "type StudentConnection"))
}

func TestFromStringInvalid(t *testing.T) {
	tests := map[string]struct {
		sdl string
		err string
	}{
		"parse error": {
			sdl: "type Query {",
			err: "while parsing GraphQL schema",
		},
		"unknown type": {
			sdl: "type Query { s: Nope }",
			err: "while validating GraphQL schema",
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromString(tcase.sdl)
			require.Error(t, err)
			require.Contains(t, err.Error(), tcase.err)
		})
	}
}

func TestOperation(t *testing.T) {
	s, err := Campus(0)
	require.NoError(t, err)

	tests := map[string]struct {
		req  *Request
		name string
		err  string
	}{
		"anonymous query": {
			req: &Request{Query: `{ students(first: 2) { edges { node { name } } } }`},
		},
		"named query with variables": {
			req: &Request{
				Query:     `query Page($n: Int) { students(first: $n) { edges { cursor } } }`,
				Variables: map[string]interface{}{"n": 2},
			},
			name: "Page",
		},
		"pick operation": {
			req: &Request{
				Query:         `query A { levels } query B { gradeLetters }`,
				OperationName: "B",
			},
			name: "B",
		},
		"no query": {
			req: &Request{},
			err: "no query string supplied in request",
		},
		"syntax error": {
			req: &Request{Query: `{ students( }`},
			err: "Expected",
		},
		"unknown field": {
			req: &Request{Query: `{ teachers { edges { cursor } } }`},
			err: `Cannot query field "teachers" on type "Query".`,
		},
		"missing required argument": {
			req: &Request{Query: `{ student { name } }`},
			err: `Field "student" argument "id" of type "ID!" is required but not provided.`,
		},
		"unknown argument": {
			req: &Request{Query: `{ students(bogus: 1) { edges { cursor } } }`},
			err: `Unknown argument "bogus" on field "students" of type "Query".`,
		},
		"selection on a scalar": {
			req: &Request{Query: `{ levels { nope } }`},
			err: `Field "levels" must not have a selection`,
		},
		"missing selection": {
			req: &Request{Query: `{ students(first: 1) }`},
			err: `Field "students" of type "StudentConnection" must have a selection of subfields.`,
		},
		"int out of range": {
			req: &Request{Query: `{ students(first: 2147483648) { edges { cursor } } }`},
			err: "Out of range value '2147483648', for type `Int`",
		},
		"undefined fragment": {
			req: &Request{Query: `{ ...Missing }`},
			err: `Unknown fragment "Missing".`,
		},
		"mutation": {
			req: &Request{Query: `mutation { addStudent }`},
			err: "campus is read only, mutation operations are not supported.",
		},
		"missing operation name": {
			req: &Request{Query: `query A { levels } query B { gradeLetters }`},
			err: "Operation name must by supplied",
		},
		"unknown operation name": {
			req: &Request{Query: `query A { levels }`, OperationName: "C"},
			err: "Supplied operation name C isn't present in the request.",
		},
		"bad variable": {
			req: &Request{
				Query:     `query Page($n: Int) { students(first: $n) { edges { cursor } } }`,
				Variables: map[string]interface{}{"n": "two"},
			},
			err: "n",
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			op, err := s.Operation(tcase.req)
			if tcase.err != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tcase.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tcase.name, op.Name())
			require.Equal(t, tcase.req.Query, op.Query())
			require.NotNil(t, op.Doc())
			require.NotEmpty(t, op.Definition().SelectionSet)
		})
	}
}

func TestOperationMutationLocation(t *testing.T) {
	s, err := Campus(0)
	require.NoError(t, err)

	_, err = s.Operation(&Request{Query: "\n  mutation { addStudent }"})
	gqlErrs := AsGQLErrors(err)
	require.Len(t, gqlErrs, 1)
	require.Equal(t, []x.Location{{Line: 2, Column: 3}}, gqlErrs[0].Locations)
}

func TestOperationCache(t *testing.T) {
	s, err := Campus(100)
	require.NoError(t, err)
	defer s.Close()

	req := &Request{
		Query:     `query Page($n: Int) { students(first: $n) { edges { cursor } } }`,
		Variables: map[string]interface{}{"n": 1},
	}
	first, err := s.Operation(req)
	require.NoError(t, err)
	s.cache.Wait()

	second, err := s.Operation(req)
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := s.Operation(&Request{
		Query:     req.Query,
		Variables: map[string]interface{}{"n": 2},
	})
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.EqualValues(t, 2, other.Vars()["n"])
}

func TestOperationCacheDisabled(t *testing.T) {
	s, err := Campus(0)
	require.NoError(t, err)
	require.Nil(t, s.cache)

	req := &Request{Query: `{ levels }`}
	first, err := s.Operation(req)
	require.NoError(t, err)
	second, err := s.Operation(req)
	require.NoError(t, err)
	require.NotSame(t, first, second)
}
