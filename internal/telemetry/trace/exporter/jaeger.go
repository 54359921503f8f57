package exporter

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/jaeger"
)

// NewJaeger sends spans to a jaeger collector, e.g. http://localhost:14268/api/traces.
func NewJaeger(endpoint string) (*jaeger.Exporter, error) {
	traceExp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, errors.Wrap(err, "jaeger.New")
	}
	return traceExp, nil
}
