package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"media_relay/entity"
)

const defaultLanguage = "en"

// transcriptionBodyKeys lists the form keys the speech API may read the audio from.
// The same base64 payload is sent under each of them.
var transcriptionBodyKeys = []string{"audio", "file", "audio_data", "data"}

// TranscriptionURL appends the fixed speech API flags and language to base.
func TranscriptionURL(base, language string) string {
	if language == "" {
		language = defaultLanguage
	}
	return fmt.Sprintf("%s?word_timestamps=false&task=transcribe&output=txt&language=%s&encode=true",
		base, url.QueryEscape(language))
}

// Transcribe sends base64 audio to the speech API and returns its plain-text output.
func (r *RelayUsecase) Transcribe(ctx context.Context, req entity.TranscriptionRequest) (text string, err error) {
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	ctx, span := startSpan(ctx, "Transcribe", attribute.String("language", language))
	defer func() { endSpan(span, err) }()

	audio := req.Base64Audio
	if audio == "" && req.Audio != nil {
		audio = base64.StdEncoding.EncodeToString(req.Audio)
	}
	if audio == "" {
		return "", &entity.InputError{Message: `Missing audio data. Expected multipart/form-data with "file" or "audio" field, or base64 audio in body.`}
	}

	r.l.Info("relay - Transcribe - forwarding transcription request (language: %s)", language)

	form := url.Values{}
	for _, key := range transcriptionBodyKeys {
		form.Add(key, audio)
	}

	ep := r.upstream.Speech
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, TranscriptionURL(ep.URL, language),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "relay - Transcribe - http.NewRequest")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setCredentials(httpReq, ep)

	resp, body, err := do(r.clients.Speech, httpReq)
	if err != nil {
		r.l.Error("relay - Transcribe - speech API error: %v", err)
		return "", &entity.ConnectError{
			Summary: "Failed to connect to transcription API",
			Err:     errors.Wrap(err, "relay - Transcribe - Do"),
		}
	}
	span.SetAttributes(attribute.Int("upstream.status", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		r.l.Error("relay - Transcribe - transcription failed: %d - %s", resp.StatusCode, body)
		return "", &entity.UpstreamError{
			StatusCode: resp.StatusCode,
			Summary:    "Transcription API error",
			Message:    string(body),
		}
	}

	r.l.Info("relay - Transcribe - transcription successful")

	return string(body), nil
}
