// Package tracing configures the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Environment variables read by [ConfigFromEnv].
const (
	EnvEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvTracesEndpoint = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	EnvInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"
)

// Config configures [Setup].
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
	// Version is reported as the service.version resource attribute.
	Version string
	// Endpoint is the OTLP gRPC collector address. Tracing is disabled
	// when it is empty.
	Endpoint string
	// Insecure disables TLS for the collector connection.
	Insecure bool
}

// ConfigFromEnv returns a [Config] using the standard OTLP environment
// variables.
func ConfigFromEnv(serviceName, version string) Config {
	endpoint := os.Getenv(EnvTracesEndpoint)
	if endpoint == "" {
		endpoint = os.Getenv(EnvEndpoint)
	}

	return Config{
		ServiceName: serviceName,
		Version:     version,
		Endpoint:    endpoint,
		Insecure:    os.Getenv(EnvInsecure) == "true",
	}
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Setup installs a global tracer provider exporting spans over OTLP gRPC.
// Without an endpoint the global no-op provider is left in place.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		slog.Debug("tracing disabled, no OTLP endpoint configured")

		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpointURL(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled", slog.String("endpoint", cfg.Endpoint))

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}

		return nil
	}, nil
}
