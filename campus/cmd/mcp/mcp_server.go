/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package mcp serves campus to MCP clients over stdio.
package mcp

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hypermodeinc/campus/graphql/resolve"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/x"
)

//go:embed prompt.txt
var promptBytes []byte

const schemaURI = "campus://schema"

var readOnly = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

type handlers struct {
	resolver *resolve.RequestResolver
}

// NewMCPServer returns an MCPServer answering queries with resolver.
func NewMCPServer(resolver *resolve.RequestResolver) *server.MCPServer {
	h := &handlers{resolver: resolver}
	s := server.NewMCPServer(
		"Campus MCP Server",
		x.Version(),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	schemaTool := mcp.NewTool("Get-Schema",
		mcp.WithDescription("Get the campus GraphQL schema"),
		mcp.WithToolAnnotation(readOnly),
	)

	queryTool := mcp.NewTool("Run-Query",
		mcp.WithDescription("Run a GraphQL query on campus"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The GraphQL query to run"),
		),
		mcp.WithString("variables",
			mcp.Description("Variables of the query as a JSON object"),
		),
		mcp.WithString("operationName",
			mcp.Description("The operation to run when the query has several"),
		),
		mcp.WithToolAnnotation(readOnly),
	)

	s.AddTool(queryTool, h.runQuery)
	s.AddTool(schemaTool, h.getSchema)

	schemaResource := mcp.NewResource(
		schemaURI,
		"Campus Schema",
		mcp.WithResourceDescription("The campus GraphQL schema"),
		mcp.WithMIMEType("text/plain"),
	)
	s.AddResource(schemaResource, h.readSchema)

	addPrompt(s)

	return s
}

func (h *handlers) runQuery(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error) {

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := &schema.Request{
		Query:         query,
		OperationName: request.GetString("operationName", ""),
	}
	if vars := request.GetString("variables", ""); strings.TrimSpace(vars) != "" {
		d := json.NewDecoder(strings.NewReader(vars))
		d.UseNumber()
		if err := d.Decode(&req.Variables); err != nil {
			return mcp.NewToolResultErrorFromErr("variables must be a JSON object", err), nil
		}
	}

	resp := h.resolver.Resolve(ctx, req)
	var buf bytes.Buffer
	if _, err := resp.WriteTo(&buf); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return mcp.NewToolResultError(buf.String()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *handlers) getSchema(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(h.resolver.Schema().String()), nil
}

func (h *handlers) readSchema(context.Context, mcp.ReadResourceRequest) (
	[]mcp.ResourceContents, error) {

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemaURI,
			MIMEType: "text/plain",
			Text:     h.resolver.Schema().String(),
		},
	}, nil
}

func addPrompt(s *server.MCPServer) {
	prompt := string(promptBytes)
	s.AddPrompt(mcp.NewPrompt("Quick start prompt",
		mcp.WithPromptDescription("A quick Start prompt for new users and llms"),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return mcp.NewGetPromptResult(
			"A quick start prompt",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(
					mcp.RoleAssistant,
					mcp.NewTextContent(prompt),
				),
			},
		), nil
	})
}
