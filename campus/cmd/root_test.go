/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/campus/campus/cmd/serve"
)

func TestSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "query", "schema", "mcp", "version"} {
		require.True(t, names[name], "missing subcommand %s", name)
	}
}

func TestServeConfig(t *testing.T) {
	require.Equal(t, 8080, serve.Serve.Conf.GetInt("port"))
	require.Equal(t, "builtin://", serve.Serve.Conf.GetString("seed"))

	t.Setenv("CAMPUS_SERVE_QUERY_CACHE", "42")
	require.Equal(t, int64(42), serve.Serve.Conf.GetInt64("query_cache"))
}

func TestReadConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "campus.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("port: 9090\nseed: /data/seed.yaml\n"), 0o600))

	prev := rootConf.GetString("config")
	rootConf.Set("config", cfg)
	defer rootConf.Set("config", prev)

	readConfig()
	require.Equal(t, 9090, serve.Serve.Conf.GetInt("port"))
	require.Equal(t, "/data/seed.yaml", serve.Serve.Conf.GetString("seed"))
}
