// Package exporter builds span exporters for the configured tracing backend.
package exporter

import (
	"context"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	KindNone   = "none"
	KindJaeger = "jaeger"
	KindOTLP   = "otlp"
)

// New returns the exporter for kind, or nil when tracing export is disabled.
func New(ctx context.Context, kind, endpoint string) (sdktrace.SpanExporter, error) {
	switch kind {
	case "", KindNone:
		return nil, nil
	case KindJaeger:
		return NewJaeger(endpoint)
	case KindOTLP:
		return NewOTLP(ctx, endpoint)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", kind)
	}
}
