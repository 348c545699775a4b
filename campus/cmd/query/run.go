/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package query runs a single GraphQL operation against a seed.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/campus/graphql/campus"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/store/seed"
	"github.com/hypermodeinc/campus/x"
)

// Query is the sub-command invoked when running "campus query".
var Query x.SubCommand

func init() {
	Query.Cmd = &cobra.Command{
		Use:   "query",
		Short: "Run a GraphQL operation and print the response",
		Long: `
Loads a seed, runs one GraphQL operation against it and prints the JSON
response. The operation is read from --query, or from stdin when --query is
empty.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(cmd.Context(), os.Stdin, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error : %s\n", err)
				os.Exit(1)
			}
		},
		Annotations: map[string]string{"group": "tool"},
	}
	Query.EnvPrefix = "CAMPUS_QUERY"
	Query.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flags := Query.Cmd.Flags()
	flags.StringP("seed", "s", seed.Builtin, "Seed URI the dataset is loaded from.")
	flags.StringP("query", "q", "", "The GraphQL operation. Read from stdin when empty.")
	flags.String("operation_name", "", "Operation to run when the query has several.")
	flags.String("variables", "", "Variables of the operation as a JSON object.")
	flags.Bool("pretty", true, "Indent the JSON response.")
}

func request(in io.Reader) (*schema.Request, error) {
	req := &schema.Request{
		Query:         Query.Conf.GetString("query"),
		OperationName: Query.Conf.GetString("operation_name"),
	}
	if req.Query == "" {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, errors.Wrapf(err, "while reading the query from stdin")
		}
		req.Query = string(b)
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New("no query given")
	}

	if vars := Query.Conf.GetString("variables"); vars != "" {
		d := json.NewDecoder(strings.NewReader(vars))
		d.UseNumber()
		if err := d.Decode(&req.Variables); err != nil {
			return nil, errors.Wrapf(err, "while parsing --variables")
		}
	}
	return req, nil
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := request(in)
	if err != nil {
		return err
	}
	resolver, err := campus.Load(ctx, Query.Conf.GetString("seed"), 0)
	if err != nil {
		return err
	}
	defer resolver.Schema().Close()

	var buf bytes.Buffer
	if _, err := resolver.Resolve(ctx, req).WriteTo(&buf); err != nil {
		return errors.Wrapf(err, "while writing the response")
	}
	if Query.Conf.GetBool("pretty") {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, buf.Bytes(), "", "  "); err != nil {
			return errors.Wrapf(err, "while indenting the response")
		}
		buf = pretty
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(out)
	return err
}
