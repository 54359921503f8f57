package relay

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"media_relay/entity"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	refererYouTube   = "https://www.youtube.com/"
	refererTikTok    = "https://www.tiktok.com/"
	refererInstagram = "https://www.instagram.com/"

	defaultVideoContentType = "video/mp4"
	defaultRange            = "bytes=0-"
	errorDetailsLimit       = 500
)

// refererRules are checked in order; the first rule with a matching substring wins.
var refererRules = []struct {
	substrings []string
	referer    string
}{
	{[]string{"tiktok", "musical.ly"}, refererTikTok},
	{[]string{"instagram"}, refererInstagram},
	{[]string{"youtube", "googlevideo.com"}, refererYouTube},
}

// RefererFor picks the Referer header a video host expects for videoURL.
// Unknown hosts get the YouTube referer.
func RefererFor(videoURL string) string {
	for _, rule := range refererRules {
		for _, s := range rule.substrings {
			if strings.Contains(videoURL, s) {
				return rule.referer
			}
		}
	}
	return refererYouTube
}

// wantsRange reports whether the host serves byte ranges and should receive a Range header.
func wantsRange(videoURL string) bool {
	return strings.Contains(videoURL, "googlevideo.com") || strings.Contains(videoURL, "youtube")
}

// FetchVideo downloads req.URL with browser-like headers and buffers the whole body.
func (r *RelayUsecase) FetchVideo(ctx context.Context, req entity.VideoStreamRequest) (stream *entity.VideoStream, err error) {
	ctx, span := startSpan(ctx, "FetchVideo", attribute.String("url", truncate(req.URL, 100)))
	defer func() { endSpan(span, err) }()

	if req.URL == "" {
		return nil, &entity.InputError{Message: "Missing required query parameter: url"}
	}

	r.l.Info("relay - FetchVideo - downloading video from: %s...", truncate(req.URL, 100))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "relay - FetchVideo - http.NewRequest")
	}

	referer := RefererFor(req.URL)
	httpReq.Header.Set("User-Agent", browserUserAgent)
	httpReq.Header.Set("Referer", referer)
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	httpReq.Header.Set("Accept-Encoding", "identity")
	httpReq.Header.Set("Sec-Fetch-Dest", "video")
	httpReq.Header.Set("Sec-Fetch-Mode", "no-cors")
	httpReq.Header.Set("Sec-Fetch-Site", "cross-site")

	if wantsRange(req.URL) {
		rangeHeader := req.Range
		if rangeHeader == "" {
			rangeHeader = defaultRange
		}
		httpReq.Header.Set("Range", rangeHeader)
		span.SetAttributes(attribute.String("range", rangeHeader))
	}
	span.SetAttributes(attribute.String("referer", referer))

	resp, body, err := do(r.clients.Video, httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "relay - FetchVideo - Do")
	}
	span.SetAttributes(attribute.Int("upstream.status", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		r.l.Error("relay - FetchVideo - upstream error: %d - %s", resp.StatusCode, truncate(string(body), 200))
		return nil, &entity.UpstreamError{
			StatusCode: resp.StatusCode,
			Summary:    fmt.Sprintf("Video download failed: %d", resp.StatusCode),
			Details:    truncate(string(body), errorDetailsLimit),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultVideoContentType
	}

	r.l.Info("relay - FetchVideo - video downloaded: %d bytes", len(body))

	return &entity.VideoStream{
		Body:          body,
		ContentType:   contentType,
		ContentLength: resp.Header.Get("Content-Length"),
		ContentRange:  resp.Header.Get("Content-Range"),
	}, nil
}
