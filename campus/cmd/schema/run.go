/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package schema prints the campus GraphQL schema.
package schema

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	gqlschema "github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/x"
)

// Schema is the sub-command invoked when running "campus schema".
var Schema x.SubCommand

func init() {
	Schema.Cmd = &cobra.Command{
		Use:   "schema",
		Short: "Prints the campus GraphQL schema",
		Long: `
Prints the schema campus serves in GraphQL SDL, for client toolchains such as
the Relay compiler.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error : %s\n", err)
				os.Exit(1)
			}
		},
		Annotations: map[string]string{"group": "tool"},
	}
	Schema.EnvPrefix = "CAMPUS_SCHEMA"
	Schema.Cmd.SetHelpTemplate(x.NonRootTemplate)
}

func run(out io.Writer) error {
	_, err := io.WriteString(out, gqlschema.SDL())
	return err
}
