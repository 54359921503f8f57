package server

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"media_relay/config"
	ttrace "media_relay/internal/telemetry/trace"
	traceExporter "media_relay/internal/telemetry/trace/exporter"
)

// InitGlobalProvider installs the global tracer provider and propagators.
// With the "none" exporter spans are still created but never exported.
func (s *Server) InitGlobalProvider(ctx context.Context, cfg *config.Config) error {
	// set global propagator to tracecontext (the default is no-op).
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	spanExporter, err := traceExporter.New(ctx, cfg.OTEL.Exporter, cfg.OTEL.Endpoint)
	if err != nil {
		return fmt.Errorf("failed initializing the tracer exporter: %w", err)
	}

	tracerProvider, tracerProviderCloseFn, err := ttrace.NewTraceProviderBuilder(cfg.App.Name).
		SetVersion(cfg.App.Version).
		SetExporter(spanExporter).
		Build()
	if err != nil {
		return fmt.Errorf("failed initializing the tracer provider: %w", err)
	}
	s.traceProviderCloseFn = append(s.traceProviderCloseFn, tracerProviderCloseFn)

	otel.SetTracerProvider(tracerProvider)
	return nil
}
