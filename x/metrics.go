/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"context"
	"net/http"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// Cumulative metrics.
	NumQueries = stats.Int64("num_queries_total",
		"Total number of GraphQL operations", stats.UnitDimensionless)
	NumFieldErrors = stats.Int64("num_field_errors_total",
		"Total number of GraphQL errors returned in responses", stats.UnitDimensionless)
	OperationCacheHits = stats.Int64("operation_cache_hits_total",
		"Number of GraphQL operations served from the operation cache", stats.UnitDimensionless)
	OperationCacheMisses = stats.Int64("operation_cache_misses_total",
		"Number of GraphQL operations parsed and validated", stats.UnitDimensionless)
	LatencyMs = stats.Float64("latency",
		"Latency of the various methods", stats.UnitMilliseconds)

	// Tag keys here
	KeyStatus, _ = tag.NewKey("status")
	KeyMethod, _ = tag.NewKey("method")

	// Tag values here
	TagValueStatusOK    = "ok"
	TagValueStatusError = "error"

	defaultLatencyMsDistribution = view.Distribution(
		0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16,
		20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500,
		650, 800, 1000, 2000, 5000, 10000)

	allTagKeys = []tag.Key{
		KeyStatus, KeyMethod,
	}

	allViews = []*view.View{
		{
			Name:        LatencyMs.Name(),
			Measure:     LatencyMs,
			Description: LatencyMs.Description(),
			Aggregation: defaultLatencyMsDistribution,
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumQueries.Name(),
			Measure:     NumQueries,
			Description: NumQueries.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumFieldErrors.Name(),
			Measure:     NumFieldErrors,
			Description: NumFieldErrors.Description(),
			Aggregation: view.Sum(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        OperationCacheHits.Name(),
			Measure:     OperationCacheHits,
			Description: OperationCacheHits.Description(),
			Aggregation: view.Count(),
		},
		{
			Name:        OperationCacheMisses.Name(),
			Measure:     OperationCacheMisses,
			Description: OperationCacheMisses.Description(),
			Aggregation: view.Count(),
		},
	}
)

func init() {
	CheckfNoTrace(view.Register(allViews...))
}

// WithMethod returns a new updated context with the tag KeyMethod set to the given value.
func WithMethod(parent context.Context, method string) context.Context {
	ctx, err := tag.New(parent, tag.Upsert(KeyMethod, method))
	Check(err)
	return ctx
}

// SinceMs returns the time since startTime in milliseconds (as a float).
func SinceMs(startTime time.Time) float64 {
	return float64(time.Since(startTime)) / 1e6
}

// RecordQuery records one resolved operation: its latency and whether it
// produced errors.
func RecordQuery(ctx context.Context, startTime time.Time, numErrors int) {
	status := TagValueStatusOK
	if numErrors > 0 {
		status = TagValueStatusError
	}
	cctx, err := tag.New(ctx, tag.Upsert(KeyStatus, status))
	if err != nil {
		glog.Warningf("Unable to tag query metrics: %v", err)
		cctx = ctx
	}
	stats.Record(cctx, NumQueries.M(1), LatencyMs.M(SinceMs(startTime)),
		NumFieldErrors.M(int64(numErrors)))
}

// NewMetricsHandler returns the handler serving the opencensus views (and the
// Go runtime and process collectors) in the Prometheus text format.
func NewMetricsHandler(namespace string) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pe, err := ocprom.NewExporter(ocprom.Options{
		Namespace: namespace,
		Registry:  registry,
		OnError:   func(err error) { glog.Errorf("%v", err) },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create OpenCensus Prometheus exporter")
	}
	return pe, nil
}
