// Package telemetry configures OpenTelemetry trace and metric export.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gitlab.com/yelinaung/expense-ledger/internal/config"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs global tracer and meter providers for the configured
// exporter. Stdout exporters write to w. With no exporter configured the
// global no-op providers are left in place.
func Setup(ctx context.Context, cfg *config.Config, version string, w io.Writer) (ShutdownFunc, error) {
	if !cfg.TelemetryEnabled() {
		return noopShutdown, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	spanExporter, metricExporter, err := newExporters(ctx, cfg.OTelExporter, w)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Log.Info().Str("exporter", cfg.OTelExporter).Msg("Telemetry enabled")

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newExporters(ctx context.Context, name string, w io.Writer) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	switch name {
	case config.ExporterStdout:
		spans, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		return withMetrics(ctx, spans, "stdout", func() (sdkmetric.Exporter, error) {
			return stdoutmetric.New(stdoutmetric.WithWriter(w))
		})

	case config.ExporterOTLP:
		// Endpoints and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
		spans, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		return withMetrics(ctx, spans, "OTLP", func() (sdkmetric.Exporter, error) {
			return otlpmetrichttp.New(ctx)
		})

	case config.ExporterOTLPGRPC:
		spans, err := otlptracegrpc.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP gRPC trace exporter: %w", err)
		}
		return withMetrics(ctx, spans, "OTLP gRPC", func() (sdkmetric.Exporter, error) {
			return otlpmetricgrpc.New(ctx)
		})

	default:
		return nil, nil, fmt.Errorf("unknown telemetry exporter %q", name)
	}
}

// withMetrics pairs spans with a metric exporter. spans is shut down when the
// metric exporter cannot be created.
func withMetrics(
	ctx context.Context,
	spans sdktrace.SpanExporter,
	kind string,
	newMetrics func() (sdkmetric.Exporter, error),
) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	metrics, err := newMetrics()
	if err != nil {
		return nil, nil, errors.Join(
			fmt.Errorf("failed to create %s metric exporter: %w", kind, err),
			spans.Shutdown(ctx),
		)
	}
	return spans, metrics, nil
}
