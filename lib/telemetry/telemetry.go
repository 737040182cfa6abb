// Package telemetry wires up OpenTelemetry tracing/metrics and slog for
// the whole module. Exporter endpoints come from a telemetry.json5 file
// discovered by walking up from the working directory; without one,
// setup is a no-op and the default providers stay in place.
package telemetry

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gtrends/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
)

// Shutdown flushes and stops the providers Setup installed.
func Shutdown(ctx context.Context) error {
	var errlist []error
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			errlist = append(errlist, err)
		}
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(ctx); err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

var setupTestEnvironments = map[string]bool{}

// SetupForTesting sets telemetry up once per test service name, returning
// a cleanup function.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	if err := SetupFromEnv(context.Background(), serviceName); err != nil {
		t.Fatal(err)
	}
	return func() {
		if err := Shutdown(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
}

// SetupFromEnv searches up the filesystem for telemetry.json5 and uses it
// to set up exporters. A missing config is not an error, it just leaves
// telemetry unconfigured.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}

func Setup(ctx context.Context, serviceName string, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return err
	}

	traceExporter, err := traceExporterFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	tracerProvider = trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := metricExporterFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	meterProvider = metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(
			metricExporter,
			metric.WithInterval(time.Second*5),
		)),
		metric.WithResource(r),
	)
	otel.SetMeterProvider(meterProvider)

	return nil
}
