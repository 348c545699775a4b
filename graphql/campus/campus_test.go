/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package campus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/campus/graphql/resolve"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/graphql/test"
	"github.com/hypermodeinc/campus/store"
	"github.com/hypermodeinc/campus/x"
)

const (
	cursor0 = "YXJyYXljb25uZWN0aW9uOjA="
	cursor1 = "YXJyYXljb25uZWN0aW9uOjE="
)

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors x.GqlErrorList  `json:"errors"`
}

func campusResolver(t *testing.T, snap *store.Snapshot) *resolve.RequestResolver {
	s, err := schema.Campus(0)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s, snap)
}

func run(t *testing.T, r *resolve.RequestResolver, query string,
	vars map[string]interface{}) gqlResponse {

	resp := r.Resolve(context.Background(), &schema.Request{Query: query, Variables: vars})
	var out gqlResponse
	require.NoError(t, json.Unmarshal([]byte(test.ResponseJSON(t, resp)), &out))
	return out
}

func TestQueries(t *testing.T) {
	r := campusResolver(t, store.Builtin())

	tests := map[string]struct {
		query string
		vars  map[string]interface{}
		data  string
	}{
		"root id": {
			query: `{ id }`,
			data:  `{"id": "UXVlcnk6"}`,
		},
		"first page of students": {
			query: `{ students(first: 1) {
				edges { cursor node { id name firstName lastName level GPA } }
				pageInfo { hasNextPage hasPreviousPage startCursor endCursor } } }`,
			data: `{"students": {
				"edges": [{"cursor": "` + cursor0 + `", "node": {"id": "7",
					"name": "Nicholas Babelthuap Neumann-Chun", "firstName": "Nicholas",
					"lastName": "Neumann-Chun", "level": "FRESHMAN", "GPA": 1}}],
				"pageInfo": {"hasNextPage": true, "hasPreviousPage": false,
					"startCursor": "` + cursor0 + `", "endCursor": "` + cursor0 + `"}}}`,
		},
		"page after a cursor": {
			query: `query ($after: String) { students(after: $after) {
				edges { node { name level GPA } }
				pageInfo { hasNextPage hasPreviousPage } } }`,
			vars: map[string]interface{}{"after": cursor0},
			data: `{"students": {
				"edges": [{"node": {"name": "Sarah Papaya Lyon", "level": "JUNIOR", "GPA": 4}}],
				"pageInfo": {"hasNextPage": false, "hasPreviousPage": true}}}`,
		},
		"last of a filtered list": {
			query: `{ students(filter: "n", last: 1) { edges { cursor node { name } } } }`,
			data: `{"students": {"edges": [
				{"cursor": "` + cursor1 + `", "node": {"name": "Sarah Papaya Lyon"}}]}}`,
		},
		"subsequence filter": {
			query: `{ instructors(filter: "SMR") { edges { node { id } } } }`,
			data:  `{"instructors": {"edges": [{"node": {"id": "42"}}]}}`,
		},
		"numeric filter": {
			query: `{ students(filter: "125", filterBy: "age") { edges { node { name } } } }`,
			data:  `{"students": {"edges": [{"node": {"name": "Sarah Papaya Lyon"}}]}}`,
		},
		"blank filter is ignored": {
			query: `{ courses(filter: "  ") { edges { node { id } } } }`,
			data:  `{"courses": {"edges": [{"node": {"id": "101"}}, {"node": {"id": "102"}}]}}`,
		},
		"unknown filterBy matches nothing": {
			query: `{ courses(filter: "x", filterBy: "colour") {
				edges { node { id } } pageInfo { startCursor } } }`,
			data: `{"courses": {"edges": [], "pageInfo": {"startCursor": null}}}`,
		},
		"grades filter on the code": {
			query: `{ grades(filter: "4") { edges { node { id grade } } } }`,
			data:  `{"grades": {"edges": [{"node": {"id": "9:102", "grade": "A"}}]}}`,
		},
		"single records": {
			query: `{ instructor(id: 13) { name } student(id: "9") { age gender }
				course(id: 101) { name } grade(id: "7:102") { grade } }`,
			data: `{"instructor": {"name": "Cade Hercules Nichols"},
				"student": {"age": 125, "gender": "female"},
				"course": {"name": "Skydiving"}, "grade": {"grade": "C"}}`,
		},
		"missing records are null": {
			query: `{ instructor(id: 1) { name } grade(id: "9:101") { id } }`,
			data:  `{"instructor": null, "grade": null}`,
		},
		"labels": {
			query: `{ levels gradeLetters }`,
			data: `{"levels": ["FRESHMAN", "SOPHMORE", "JUNIOR", "SENIOR"],
				"gradeLetters": ["F", "D", "C", "B", "A"]}`,
		},
		"instructor courses": {
			query: `{ instructor(id: 42) { coursesConnection { edges { node { id } } } } }`,
			data:  `{"instructor": {"coursesConnection": {"edges": [{"node": {"id": "102"}}]}}}`,
		},
		"student courses and grades": {
			query: `{ student(id: 7) {
				coursesConnection { edges { node { name } } }
				gradesConnection(first: 1) { edges { node { course { id } grade } } } } }`,
			data: `{"student": {
				"coursesConnection": {"edges": [{"node": {"name": "Skydiving"}},
					{"node": {"name": "ReactCamp"}}]},
				"gradesConnection": {"edges": [{"node": {"course": {"id": "101"}, "grade": "F"}}]}}}`,
		},
		"course roster and grades": {
			query: `{ course(id: 102) { instructor { firstName }
				studentsConnection(last: 1) { edges { cursor node { id } } }
				gradesConnection { edges { node { student { name } grade } } } } }`,
			data: `{"course": {"instructor": {"firstName": "Samer"},
				"studentsConnection": {"edges": [{"cursor": "` + cursor1 + `", "node": {"id": "9"}}]},
				"gradesConnection": {"edges": [
					{"node": {"student": {"name": "Nicholas Babelthuap Neumann-Chun"}, "grade": "C"}},
					{"node": {"student": {"name": "Sarah Papaya Lyon"}, "grade": "A"}}]}}}`,
		},
		"typename": {
			query: `{ student(id: 7) { __typename } }`,
			data:  `{"student": {"__typename": "Student"}}`,
		},
		"query root is a node": {
			query: `{ __type(name: "Query") { interfaces { name } } }`,
			data:  `{"__type": {"interfaces": [{"name": "Node"}]}}`,
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			resp := run(t, r, tcase.query, tcase.vars)
			require.Nil(t, resp.Errors)
			require.JSONEq(t, tcase.data, string(resp.Data))
		})
	}
}

func TestRosterOrder(t *testing.T) {
	snap := store.Builtin()
	snap.Courses[1].Students = []int{9, 7}
	r := campusResolver(t, snap)

	resp := run(t, r, `{ course(id: 102) { studentsConnection { edges { node { id } } } } }`, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t,
		`{"course": {"studentsConnection": {"edges": [{"node": {"id": "9"}}, {"node": {"id": "7"}}]}}}`,
		string(resp.Data))
}

func TestNoGradesMeansNoGPA(t *testing.T) {
	snap, err := store.New(
		nil,
		[]*store.Student{{Person: store.Person{ID: 1, Name: "New Student"}, Level: 4}},
		nil, nil)
	require.NoError(t, err)
	r := campusResolver(t, snap)

	resp := run(t, r, `{ student(id: 1) { level GPA gradesConnection { edges { cursor } } } }`, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"student": {"level": "SENIOR", "GPA": null,
		"gradesConnection": {"edges": []}}}`, string(resp.Data))
}

func TestPaginationErrors(t *testing.T) {
	r := campusResolver(t, store.Builtin())

	tests := map[string]struct {
		query   string
		message string
	}{
		"cursor that is not base64": {
			query:   `{ students(after: "garbage") { edges { cursor } } }`,
			message: `couldn't paginate because after: "garbage" is not base64: invalid cursor`,
		},
		"cursor past the end": {
			query: `{ students(before: "YXJyYXljb25uZWN0aW9uOjI=") { edges { cursor } } }`,
			message: "couldn't paginate because before: offset 2 is outside a sequence of 2: " +
				"invalid cursor",
		},
		"negative count": {
			query:   `{ students(first: -1) { edges { cursor } } }`,
			message: "couldn't paginate because first and last must not be negative",
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			resp := run(t, r, tcase.query, nil)
			require.JSONEq(t, `{"students": null}`, string(resp.Data))
			require.Len(t, resp.Errors, 1)
			require.Equal(t, tcase.message, resp.Errors[0].Message)
			require.Equal(t, []interface{}{"students"}, resp.Errors[0].Path)
			require.Equal(t, []x.Location{{Line: 1, Column: 3}}, resp.Errors[0].Locations)
		})
	}
}

func TestInvalidRequests(t *testing.T) {
	r := campusResolver(t, store.Builtin())

	tests := map[string]struct {
		query   string
		message string
	}{
		"mutation": {
			query:   `mutation { addStudent }`,
			message: "campus is read only, mutation operations are not supported.",
		},
		"unknown field": {
			query:   `{ students { edges { node { favouriteColour } } } }`,
			message: `Cannot query field "favouriteColour" on type "Student".`,
		},
		"lookup without an id": {
			query:   `{ student { name } }`,
			message: `Field "student" argument "id" of type "ID!" is required but not provided.`,
		},
		"undefined fragment": {
			query:   `{ ...Missing }`,
			message: `Unknown fragment "Missing".`,
		},
		"page size beyond Int": {
			query:   `{ students(first: 2147483648) { edges { cursor } } }`,
			message: "Out of range value '2147483648', for type `Int`",
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			resp := run(t, r, tcase.query, nil)
			require.Len(t, resp.Errors, 1)
			require.Equal(t, tcase.message, resp.Errors[0].Message)
			require.NotEmpty(t, resp.Errors[0].Locations)
		})
	}
}

func TestIntrospectionOfCampus(t *testing.T) {
	r := campusResolver(t, store.Builtin())

	resp := run(t, r, `{ __type(name: "PageInfo") { kind fields { name } } }`, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"__type": {"kind": "OBJECT", "fields": [
		{"name": "hasNextPage"}, {"name": "hasPreviousPage"},
		{"name": "startCursor"}, {"name": "endCursor"}]}}`, string(resp.Data))
}

func TestLoad(t *testing.T) {
	r, err := Load(context.Background(), "builtin://", 8)
	require.NoError(t, err)
	defer r.Schema().Close()

	resp := run(t, r, `{ courses { edges { node { name } } } }`, nil)
	require.Nil(t, resp.Errors)
	require.JSONEq(t, `{"courses": {"edges": [{"node": {"name": "Skydiving"}},
		{"node": {"name": "ReactCamp"}}]}}`, string(resp.Data))

	_, err = Load(context.Background(), "gopher://seed", 0)
	require.Error(t, err)
}
