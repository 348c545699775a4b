/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hypermodeinc/campus/campus/cmd/mcp"
	"github.com/hypermodeinc/campus/campus/cmd/query"
	"github.com/hypermodeinc/campus/campus/cmd/schema"
	"github.com/hypermodeinc/campus/campus/cmd/serve"
	"github.com/hypermodeinc/campus/campus/cmd/version"
	"github.com/hypermodeinc/campus/x"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "campus",
	Short: "Campus: a read-only GraphQL API over an academic dataset",
	Long: `
Campus serves instructors, students, courses and grades over GraphQL. Lists are
Relay connections with opaque cursors and can be narrowed with a numeric or
fuzzy text filter. The dataset is loaded once from a seed and never changes.
` + x.BuildDetails(),
	PersistentPreRunE: cobra.NoArgs,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	goflag.Parse()
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var rootConf = viper.New()

var subcommands = []*x.SubCommand{
	&serve.Serve, &query.Query, &schema.Schema, &mcp.Mcp, &version.Version,
}

func init() {
	RootCmd.PersistentFlags().String("profile_mode", "",
		"Enable profiling mode, one of [cpu, mem, mutex, block]")
	RootCmd.PersistentFlags().Int("block_rate", 0,
		"Block profiling rate. Must be used along with block profile_mode")
	RootCmd.PersistentFlags().String("profile_dir", "",
		"Directory profiles are written to. Defaults to a temporary directory.")
	RootCmd.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	x.Check(rootConf.BindPFlags(RootCmd.PersistentFlags()))

	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	// Always set stderrthreshold=0. Don't let users set it themselves.
	x.Check(flag.Set("stderrthreshold", "0"))
	x.Check(flag.CommandLine.MarkDeprecated("stderrthreshold",
		"Campus always sets this flag to 0. It can't be overwritten."))

	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		x.Check(sc.Conf.BindPFlags(sc.Cmd.Flags()))
		x.Check(sc.Conf.BindPFlags(RootCmd.PersistentFlags()))
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		// Flags use dashes and dots, environment variables can't.
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	}
	cobra.OnInitialize(readConfig)
}

func readConfig() {
	cfg := rootConf.GetString("config")
	if cfg == "" {
		return
	}
	for _, sc := range subcommands {
		sc.Conf.SetConfigFile(cfg)
		x.Check(errors.Wrapf(sc.Conf.ReadInConfig(), "reading config"))
	}
}
