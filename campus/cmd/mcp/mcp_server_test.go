/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/campus/graphql/campus"
	"github.com/hypermodeinc/campus/graphql/schema"
)

func newHandlers(t *testing.T) *handlers {
	resolver, err := campus.Load(context.Background(), "builtin://", 4)
	require.NoError(t, err)
	t.Cleanup(resolver.Schema().Close)
	return &handlers{resolver: resolver}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "Run-Query"
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestRunQuery(t *testing.T) {
	h := newHandlers(t)

	tests := map[string]struct {
		args    map[string]any
		isError bool
		data    string
		message string
	}{
		"query": {
			args: map[string]any{"query": "{ course(id: 101) { name } }"},
			data: `{"course": {"name": "Skydiving"}}`,
		},
		"variables": {
			args: map[string]any{
				"query":         "query Q($f: String) { students(filter: $f) { edges { node { id } } } }",
				"operationName": "Q",
				"variables":     `{"f": "sarah"}`,
			},
			data: `{"students": {"edges": [{"node": {"id": "9"}}]}}`,
		},
		"missing query": {
			args:    map[string]any{},
			isError: true,
			message: `required argument "query" not found`,
		},
		"bad variables": {
			args:    map[string]any{"query": "{ id }", "variables": "nope"},
			isError: true,
			message: "variables must be a JSON object",
		},
		"GraphQL errors": {
			args:    map[string]any{"query": "mutation { id }"},
			isError: true,
			message: "campus is read only",
		},
	}

	for name, tcase := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := h.runQuery(context.Background(), callTool(tcase.args))
			require.NoError(t, err)
			require.Equal(t, tcase.isError, res.IsError)
			if tcase.isError {
				require.Contains(t, text(t, res), tcase.message)
				return
			}

			var resp struct {
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
			require.JSONEq(t, tcase.data, string(resp.Data))
		})
	}
}

func TestSchemaToolAndResource(t *testing.T) {
	h := newHandlers(t)

	res, err := h.getSchema(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Equal(t, schema.SDL(), text(t, res))

	contents, err := h.readSchema(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	require.Equal(t, schemaURI, tc.URI)
	require.Equal(t, schema.SDL(), tc.Text)
}

func TestServerListsTools(t *testing.T) {
	s := NewMCPServer(newHandlers(t).resolver)

	msg := s.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	require.Contains(t, string(b), `"name":"Run-Query"`)
	require.Contains(t, string(b), `"name":"Get-Schema"`)
	require.Contains(t, string(b), `"readOnlyHint":true`)
}
