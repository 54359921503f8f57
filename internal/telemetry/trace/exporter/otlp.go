package exporter

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"google.golang.org/grpc"
)

const otlpDialTimeout = 5 * time.Second

// NewOTLP dials an OTLP gRPC collector and fails if it is not reachable within otlpDialTimeout.
func NewOTLP(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, otlpDialTimeout)
	defer cancel()

	traceClient := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithBlock()))

	traceExp, err := otlptrace.New(ctx, traceClient)
	if err != nil {
		return nil, errors.Wrap(err, "otlptrace.New")
	}
	return traceExp, nil
}
