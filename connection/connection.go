/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package connection slices ordered sequences into cursor paginated
// connections.
package connection

import (
	"github.com/pkg/errors"
)

// Args are the pagination arguments of a connection field. Nil means absent.
type Args struct {
	First  *int
	Last   *int
	After  *string
	Before *string
}

// Edge is one node of a connection with the cursor addressing it.
type Edge[T any] struct {
	Node   T
	Cursor string
}

// PageInfo tells whether nodes exist beyond the page. The cursors are those of
// the first and last edge, nil for an empty page.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Connection is one page of a sequence.
type Connection[T any] struct {
	Edges    []Edge[T]
	PageInfo PageInfo
}

// FromSlice returns the page of nodes selected by args. Cursors encode the
// offset of a node within nodes, so they are only meaningful for the same
// sequence.
//
// after and before bound the page exclusively, then first keeps that many nodes
// from the front and last keeps that many from the back of what remains.
func FromSlice[T any](nodes []T, args Args) (*Connection[T], error) {
	if (args.First != nil && *args.First < 0) || (args.Last != nil && *args.Last < 0) {
		return nil, ErrNegativeCount
	}

	start, end := 0, len(nodes)
	if args.After != nil {
		offset, err := offsetIn(*args.After, len(nodes))
		if err != nil {
			return nil, errors.Wrapf(err, "after")
		}
		start = offset + 1
	}
	if args.Before != nil {
		offset, err := offsetIn(*args.Before, len(nodes))
		if err != nil {
			return nil, errors.Wrapf(err, "before")
		}
		end = offset
	}
	if end < start {
		end = start
	}

	if args.First != nil && end-start > *args.First {
		end = start + *args.First
	}
	if args.Last != nil && end-start > *args.Last {
		start = end - *args.Last
	}

	conn := &Connection[T]{
		Edges: make([]Edge[T], 0, end-start),
		PageInfo: PageInfo{
			HasPreviousPage: start > 0,
			HasNextPage:     end < len(nodes),
		},
	}
	for i := start; i < end; i++ {
		conn.Edges = append(conn.Edges, Edge[T]{Node: nodes[i], Cursor: OffsetToCursor(i)})
	}
	if len(conn.Edges) > 0 {
		first, last := conn.Edges[0].Cursor, conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor = &first
		conn.PageInfo.EndCursor = &last
	}
	return conn, nil
}

func offsetIn(cursor string, n int) (int, error) {
	offset, err := CursorToOffset(cursor)
	if err != nil {
		return 0, err
	}
	if offset >= n {
		return 0, errors.Wrapf(ErrInvalidCursor, "offset %d is outside a sequence of %d", offset, n)
	}
	return offset, nil
}
