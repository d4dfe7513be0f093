// Package telemetry builds the OpenTelemetry providers used by the web
// server. Metrics always feed the server's Prometheus registry; traces,
// metrics and logs are additionally pushed over OTLP/gRPC when an endpoint
// is configured.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config selects which signals are exported.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// OTLPEndpoint is a collector URL such as http://otel-collector:4317.
	// Empty disables OTLP export.
	OTLPEndpoint string
	// Registerer receives the OpenTelemetry metrics. Nil skips the
	// Prometheus bridge.
	Registerer prometheus.Registerer
}

// Providers holds the configured providers. Always call Shutdown.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// LogHandler mirrors slog records to the OTLP log exporter. It is nil
	// when OTLP export is off.
	LogHandler slog.Handler

	shutdown []func(context.Context) error
}

// Setup builds the providers for cfg.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "nginx-manager"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	p := &Providers{TracerProvider: tracenoop.NewTracerProvider()}

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if cfg.Registerer != nil {
		promExp, err := otelprom.New(otelprom.WithRegisterer(cfg.Registerer))
		if err != nil {
			return nil, fmt.Errorf("creating prometheus exporter: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(promExp))
	}

	if cfg.OTLPEndpoint != "" {
		traceExp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExp),
			sdktrace.WithResource(res),
		)
		p.TracerProvider = tp
		p.shutdown = append(p.shutdown, tp.Shutdown)

		metricExp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("creating OTLP metric exporter: %w", err), p.Shutdown(ctx))
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)))

		logExp, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("creating OTLP log exporter: %w", err), p.Shutdown(ctx))
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
			sdklog.WithResource(res),
		)
		p.LogHandler = otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp))
		p.shutdown = append(p.shutdown, lp.Shutdown)
	}

	mp := sdkmetric.NewMeterProvider(metricOpts...)
	p.MeterProvider = mp
	p.shutdown = append(p.shutdown, mp.Shutdown)
	return p, nil
}

// InstallGlobals makes p the process-wide default for libraries that use
// the global OpenTelemetry API.
func (p *Providers) InstallGlobals() {
	otel.SetTracerProvider(p.TracerProvider)
	otel.SetMeterProvider(p.MeterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Shutdown flushes and stops every provider, newest first.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdown) - 1; i >= 0; i-- {
		if err := p.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}
