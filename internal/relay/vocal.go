package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"media_relay/entity"
)

const (
	defaultAudioFilename = "audio.wav"
	defaultAudioMimeType = "audio/wav"
)

// vocalUploadFields lists the multipart field names the vocal remover may read the
// upload from. Its contract is undocumented, so the file is sent under each of them.
var vocalUploadFields = []string{"file", "audio", "audio_file"}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// RemoveVocals forwards an uploaded audio file to the vocal remover.
func (r *RelayUsecase) RemoveVocals(ctx context.Context, upload entity.AudioUpload) (result *entity.UpstreamBody, err error) {
	ctx, span := startSpan(ctx, "RemoveVocals",
		attribute.String("filename", upload.Filename),
		attribute.Int("size", len(upload.Body)))
	defer func() { endSpan(span, err) }()

	if upload.Body == nil {
		return nil, &entity.InputError{Message: `Missing audio file. Expected multipart/form-data with "file" or "audio" field.`}
	}

	filename := upload.Filename
	if filename == "" {
		filename = defaultAudioFilename
	}
	mimeType := upload.MimeType
	if mimeType == "" {
		mimeType = defaultAudioMimeType
	}

	r.l.Info("relay - RemoveVocals - forwarding file: %s, size: %d bytes", filename, len(upload.Body))

	body, contentType, err := duplicatedMultipart(vocalUploadFields, filename, mimeType, upload.Body)
	if err != nil {
		return nil, errors.Wrap(err, "relay - RemoveVocals - multipart")
	}

	ep := r.upstream.VocalRemover
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, "relay - RemoveVocals - http.NewRequest")
	}
	httpReq.Header.Set("Content-Type", contentType)
	setCredentials(httpReq, ep)

	resp, respBody, err := do(r.clients.VocalRemover, httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "relay - RemoveVocals - Do")
	}
	span.SetAttributes(attribute.Int("upstream.status", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		r.l.Error("relay - RemoveVocals - upstream error: %d - %s", resp.StatusCode, respBody)
		return nil, &entity.UpstreamError{
			StatusCode: resp.StatusCode,
			Summary:    "SplitBeat API error: " + string(respBody),
		}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if !json.Valid(respBody) {
			return nil, errors.New("relay - RemoveVocals - upstream returned invalid JSON")
		}
		r.l.Info("relay - RemoveVocals - response received (JSON)")
		return &entity.UpstreamBody{Body: respBody, JSON: true}, nil
	}

	r.l.Info("relay - RemoveVocals - response received (text)")

	// Some responses carry JSON under a text content type.
	return &entity.UpstreamBody{Body: respBody, JSON: json.Valid(respBody)}, nil
}

// duplicatedMultipart writes the same file part once per field name.
// It returns the encoded body and its Content-Type with boundary.
func duplicatedMultipart(fields []string, filename, mimeType string, data []byte) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	for _, field := range fields {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
		h.Set("Content-Type", mimeType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf, mw.FormDataContentType(), nil
}
