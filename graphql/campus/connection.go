/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package campus

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/campus/connection"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/lookup"
)

// connectionResult is a page of records as resolved by the <X>Connection
// GraphQL types.
type connectionResult struct {
	edges    []*edgeResult
	pageInfo *pageInfoResult
}

func (c *connectionResult) Attr(name string) (interface{}, bool) {
	switch name {
	case "edges":
		return c.edges, true
	case "pageInfo":
		return c.pageInfo, true
	}
	return nil, false
}

type edgeResult struct {
	node   interface{}
	cursor string
}

func (e *edgeResult) Attr(name string) (interface{}, bool) {
	switch name {
	case "node":
		return e.node, true
	case "cursor":
		return e.cursor, true
	}
	return nil, false
}

type pageInfoResult struct {
	connection.PageInfo
}

func (p *pageInfoResult) Attr(name string) (interface{}, bool) {
	switch name {
	case "hasNextPage":
		return p.HasNextPage, true
	case "hasPreviousPage":
		return p.HasPreviousPage, true
	case "startCursor":
		return p.StartCursor, true
	case "endCursor":
		return p.EndCursor, true
	}
	return nil, false
}

// paginationArgs reads first, last, after and before from GraphQL arguments.
func paginationArgs(args map[string]interface{}) (connection.Args, error) {
	var out connection.Args
	for _, name := range []string{"first", "last"} {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return out, errors.Wrapf(err, "argument %s", name)
		}
		if name == "first" {
			out.First = &n
		} else {
			out.Last = &n
		}
	}
	for _, name := range []string{"after", "before"} {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}
		s := cast.ToString(v)
		if name == "after" {
			out.After = &s
		} else {
			out.Before = &s
		}
	}
	return out, nil
}

// paginate slices records into the connection selected by args.
func paginate[T any](records []T, args map[string]interface{}) (interface{}, error) {
	pargs, err := paginationArgs(args)
	if err != nil {
		return nil, err
	}
	conn, err := connection.FromSlice(records, pargs)
	if err != nil {
		return nil, schema.GQLWrapf(err, "couldn't paginate")
	}

	res := &connectionResult{
		edges:    make([]*edgeResult, 0, len(conn.Edges)),
		pageInfo: &pageInfoResult{conn.PageInfo},
	}
	for _, e := range conn.Edges {
		res.edges = append(res.edges, &edgeResult{node: e.Node, cursor: e.Cursor})
	}
	return res, nil
}

// filterAndPaginate applies the list filter arguments and then paginates.
func filterAndPaginate[T lookup.Record](records []T, defaultAttr string,
	args map[string]interface{}) (interface{}, error) {

	filtered := lookup.FilterCollection(records,
		cast.ToString(args["filter"]), cast.ToString(args["filterBy"]), defaultAttr)
	return paginate(filtered, args)
}
