// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package telemetry configures trace export.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config describes where and how much to trace.
type Config struct {
	// OTLP/HTTP endpoint URL.
	Endpoint string `env:"ROAD_OTEL_ENDPOINT"`
	// Whether to export at all.
	Enabled bool `env:"ROAD_OTEL_ENABLED" envDefault:"true"`
	// Fraction of root spans sampled, in [0, 1].
	SampleRatio float64 `env:"ROAD_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active returns whether c exports traces.
func (c *Config) Active() bool { return c.Enabled && c.Endpoint != "" }

var errRatio = errors.New("telemetry: sample ratio not in [0, 1]")

// NewProvider creates a tracer provider that batches the
// spans of service and exports them to config.Endpoint.
// It returns a nil provider if config is not active.
// The caller must shut the provider down.
func NewProvider(ctx context.Context, service string, config *Config) (*sdktrace.TracerProvider, error) {
	if !config.Active() {
		return nil, nil
	}
	if !(config.SampleRatio >= 0 && config.SampleRatio <= 1) {
		return nil, errRatio
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(config.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("telemetry: exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(semconv.ServiceName(service))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRatio))),
	), nil
}

// Install makes tp the global tracer provider and sets
// W3C trace context propagation.
// It returns tp.Shutdown.
func Install(tp *sdktrace.TracerProvider) func(context.Context) error {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown
}
