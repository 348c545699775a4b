/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package serve runs the campus GraphQL HTTP API.
//
// GraphQL servers should serve both GET and POST
// https://graphql.org/learn/serving-over-http/
//
// GET should be like
// http://localhost:8080/graphql?query={students{edges{node{name}}}}
//
// POST should have a json content body like
//
//	{
//	  "query": "...",
//	  "operationName": "...",
//	  "variables": { "myVariable": "someValue", ... }
//	}
//
// The server returns 200 even on errors, with a body like
//
//	{
//	  "data": { "students" : { ... } },
//	  "errors": [ { "message" : ..., ...} ... ]
//	}
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opencensus.io/trace"
	"go.opencensus.io/zpages"

	"github.com/hypermodeinc/campus/graphql/campus"
	"github.com/hypermodeinc/campus/graphql/web"
	"github.com/hypermodeinc/campus/store/seed"
	"github.com/hypermodeinc/campus/x"
)

const auditFile = "campus_audit.log"

// Serve is the sub-command invoked when running "campus serve".
var Serve x.SubCommand

func init() {
	Serve.Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the campus GraphQL API",
		Long: `
Serves the campus GraphQL API over HTTP at /graphql, with /health, Prometheus
metrics at /debug/prometheus_metrics and OpenCensus z-pages at /z.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(); err != nil {
				if glog.V(2) {
					fmt.Printf("Error : %+v\n", err)
				} else {
					fmt.Printf("Error : %s\n", err)
				}
				os.Exit(1)
			}
		},
		Annotations: map[string]string{"group": "default"},
	}
	Serve.EnvPrefix = "CAMPUS_SERVE"
	Serve.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flags := Serve.Cmd.Flags()
	flags.IntP("port", "p", 8080, "Port on which to run the HTTP service")
	flags.Bool("bindall", true,
		"Use 0.0.0.0 instead of localhost to bind to all addresses on local machine.")
	flags.StringP("seed", "s", seed.Builtin,
		"Seed URI the dataset is loaded from: builtin://, a .yaml/.yml/.json file, "+
			"sqlite://, postgres://, mysql:// or s3://")
	flags.Int64("query_cache", 1000,
		"Number of validated operations to cache. 0 disables the cache.")
	flags.String("audit", "",
		"Directory the JSON audit log of GraphQL requests is written to. Empty disables it.")
	flags.Duration("shutdown_timeout", 10*time.Second,
		"Time in-flight requests are given to finish on shutdown.")

	// OpenCensus flags.
	flags.Float64("trace", 0.01, "The ratio of queries to trace.")
}

// options are the settings of a campus server.
type options struct {
	addr            string
	seed            string
	queryCache      int64
	auditDir        string
	traceRatio      float64
	shutdownTimeout time.Duration
}

func readOptions() options {
	bind := "localhost"
	if Serve.Conf.GetBool("bindall") {
		bind = "0.0.0.0"
	}
	return options{
		addr:            fmt.Sprintf("%s:%d", bind, Serve.Conf.GetInt("port")),
		seed:            Serve.Conf.GetString("seed"),
		queryCache:      Serve.Conf.GetInt64("query_cache"),
		auditDir:        Serve.Conf.GetString("audit"),
		traceRatio:      Serve.Conf.GetFloat64("trace"),
		shutdownTimeout: Serve.Conf.GetDuration("shutdown_timeout"),
	}
}

func run() error {
	x.PrintVersion()

	prof, err := x.StartProfile(Serve.Conf)
	if err != nil {
		return err
	}
	defer prof.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, readOptions())
}

// newMux wires the GraphQL, health, metrics and z-pages endpoints.
func newMux(gql web.IServeGraphQL) (*http.ServeMux, error) {
	metrics, err := x.NewMetricsHandler("campus")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", gql.HTTPHandler())
	mux.HandleFunc("/health", x.HealthCheck)
	mux.Handle("/debug/prometheus_metrics", metrics)
	// Add OpenCensus z-pages.
	zpages.Handle(mux, "/z")
	return mux, nil
}

func serve(ctx context.Context, opts options) error {
	resolver, err := campus.Load(ctx, opts.seed, opts.queryCache)
	if err != nil {
		return err
	}
	defer resolver.Schema().Close()

	var audit *x.Logger
	if opts.auditDir != "" {
		if audit, err = x.InitLogger(opts.auditDir, auditFile); err != nil {
			return err
		}
		defer audit.Sync()
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler:             trace.ProbabilitySampler(opts.traceRatio),
		MaxAnnotationEventsPerSpan: 256,
	})

	mux, err := newMux(web.NewServer(resolver, audit))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("Bringing up GraphQL HTTP API at %s/graphql", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "GraphQL server failed")
	case <-ctx.Done():
	}

	glog.Infof("Shutting down GraphQL HTTP API at %s", opts.addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "while shutting down GraphQL server")
	}
	return nil
}
