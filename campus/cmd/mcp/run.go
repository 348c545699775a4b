/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package mcp

import (
	"context"

	"github.com/golang/glog"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/campus/graphql/campus"
	"github.com/hypermodeinc/campus/store/seed"
	"github.com/hypermodeinc/campus/x"
)

var (
	Mcp x.SubCommand
)

func init() {
	Mcp.Cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Run campus MCP server",
		Long: `
A campus MCP server is a long running process that provides an STDIO
interface for running GraphQL queries against the campus dataset.
`,
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd.Context())
		},
		Annotations: map[string]string{"group": "tool"},
	}
	Mcp.EnvPrefix = "CAMPUS_MCP"
	Mcp.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flag := Mcp.Cmd.Flags()

	flag.StringP("seed", "s", seed.Builtin, "Seed URI the dataset is loaded from.")
	flag.Int64("query_cache", 100,
		"Number of validated operations to cache. 0 disables the cache.")
}

func run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	resolver, err := campus.Load(ctx, Mcp.Conf.GetString("seed"), Mcp.Conf.GetInt64("query_cache"))
	if err != nil {
		glog.Errorf("Failed to load campus: %v", err)
		return
	}
	defer resolver.Schema().Close()

	s := NewMCPServer(resolver)

	// Start the stdio server
	if err := server.ServeStdio(s); err != nil {
		glog.Errorf("Server error: %v", err)
	}
}
