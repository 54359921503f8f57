package relay

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"media_relay/config"
	"media_relay/entity"
	"media_relay/pkg/logger"
)

const traceName = "relay"

// Credential header pair sent to every fixed upstream.
const (
	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"
)

// Clients holds one HTTP client per upstream so each can be instrumented separately.
type Clients struct {
	LinkResolver *http.Client
	Video        *http.Client
	VocalRemover *http.Client
	Speech       *http.Client
}

// SharedClients uses c for every upstream.
func SharedClients(c *http.Client) Clients {
	return Clients{LinkResolver: c, Video: c, VocalRemover: c, Speech: c}
}

// RelayUsecase implements entity.RelayUsecase. It holds no per-request state.
type RelayUsecase struct {
	clients  Clients
	upstream config.Upstream
	l        logger.Interface
}

var _ entity.RelayUsecase = (*RelayUsecase)(nil)

func NewRelayUsecase(upstream config.Upstream, clients Clients, l logger.Interface) *RelayUsecase {
	return &RelayUsecase{clients: clients, upstream: upstream, l: l}
}

func setCredentials(req *http.Request, ep config.Endpoint) {
	req.Header.Set(headerAPIKey, ep.Key)
	req.Header.Set(headerAPIHost, ep.Host)
}

// do issues req and reads the whole body. The body is returned for every status;
// callers decide how to map non-2xx responses.
func do(client *http.Client, req *http.Request) (*http.Response, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, errors.Wrap(err, "read upstream body")
	}
	return resp, body, nil
}

func isSuccess(statusCode int) bool {
	return statusCode/100 == 2
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(traceName).Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
