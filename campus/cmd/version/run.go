/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package version

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hypermodeinc/campus/x"
)

// Version is the sub-command invoked when running "campus version".
var Version x.SubCommand

func init() {
	Version.Cmd = &cobra.Command{
		Use:   "version",
		Short: "Prints the campus version details",
		Long:  "Version prints the campus version as reported by the build details.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(x.BuildDetails())
			os.Exit(0)
		},
		Annotations: map[string]string{"group": "default"},
	}
	Version.EnvPrefix = "CAMPUS_VERSION"
	Version.Cmd.SetHelpTemplate(x.NonRootTemplate)
}
