package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"media_relay/entity"
)

// ResolveLink asks the link resolver for the download links of req.URL and returns
// the upstream JSON untouched.
func (r *RelayUsecase) ResolveLink(ctx context.Context, req entity.DownloadRequest) (body []byte, err error) {
	ctx, span := startSpan(ctx, "ResolveLink", attribute.String("url", req.URL))
	defer func() { endSpan(span, err) }()

	if req.URL == "" {
		return nil, &entity.InputError{Message: "Missing required field: url"}
	}

	r.l.Info("relay - ResolveLink - fetching download link for: %s", req.URL)

	payload, err := json.Marshal(entity.DownloadRequest{URL: req.URL})
	if err != nil {
		return nil, errors.Wrap(err, "relay - ResolveLink - json.Marshal")
	}

	ep := r.upstream.LinkResolver
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "relay - ResolveLink - http.NewRequest")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	setCredentials(httpReq, ep)

	resp, respBody, err := do(r.clients.LinkResolver, httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "relay - ResolveLink - Do")
	}
	span.SetAttributes(attribute.Int("upstream.status", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		r.l.Error("relay - ResolveLink - upstream error: %d - %s", resp.StatusCode, respBody)
		return nil, &entity.UpstreamError{
			StatusCode: resp.StatusCode,
			Summary:    "RapidAPI error: " + string(respBody),
		}
	}

	if !json.Valid(respBody) {
		return nil, errors.New("relay - ResolveLink - upstream returned invalid JSON")
	}

	r.l.Info("relay - ResolveLink - response received")

	return respBody, nil
}
