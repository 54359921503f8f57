package trace

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// CloseFunc flushes and stops a provider.
type CloseFunc func(ctx context.Context) error

type TraceProviderBuilder struct {
	name     string
	version  string
	exporter sdktrace.SpanExporter
	sampler  sdktrace.Sampler
	syncer   bool
}

func NewTraceProviderBuilder(name string) *TraceProviderBuilder {
	return &TraceProviderBuilder{name: name, sampler: sdktrace.AlwaysSample()}
}

func (b *TraceProviderBuilder) SetVersion(version string) *TraceProviderBuilder {
	b.version = version
	return b
}

// SetExporter batches spans to exp. A nil exporter keeps spans in-process only.
func (b *TraceProviderBuilder) SetExporter(exp sdktrace.SpanExporter) *TraceProviderBuilder {
	b.exporter = exp
	return b
}

// SetSyncExporter exports every span as soon as it ends. Used by tests.
func (b *TraceProviderBuilder) SetSyncExporter(exp sdktrace.SpanExporter) *TraceProviderBuilder {
	b.exporter = exp
	b.syncer = true
	return b
}

func (b *TraceProviderBuilder) SetSampler(sampler sdktrace.Sampler) *TraceProviderBuilder {
	b.sampler = sampler
	return b
}

func (b *TraceProviderBuilder) Build() (*sdktrace.TracerProvider, CloseFunc, error) {
	attrs := []attribute.KeyValue{attribute.String("service.name", b.name)}
	if b.version != "" {
		attrs = append(attrs, attribute.String("service.version", b.version))
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, nil, errors.Wrap(err, "resource.Merge")
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(b.sampler),
	}
	if b.exporter != nil {
		if b.syncer {
			opts = append(opts, sdktrace.WithSyncer(b.exporter))
		} else {
			opts = append(opts, sdktrace.WithBatcher(b.exporter))
		}
	}

	tp := sdktrace.NewTracerProvider(opts...)

	return tp, tp.Shutdown, nil
}
