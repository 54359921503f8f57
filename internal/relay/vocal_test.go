package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media_relay/entity"
)

func TestRemoveVocalsDuplicatesUploadFields(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Upload_audio", r.URL.Path)
		assertCredentials(t, r)

		mr, err := r.MultipartReader()
		if !assert.NoError(t, err) {
			return
		}

		var fields []string
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if !assert.NoError(t, err) {
				return
			}

			data, _ := io.ReadAll(part)
			assert.Equal(t, "RIFFdata", string(data))
			assert.Equal(t, "song.mp3", part.FileName())
			assert.Equal(t, "audio/mpeg", part.Header.Get("Content-Type"))
			fields = append(fields, part.FormName())
		}
		assert.Equal(t, []string{"file", "audio", "audio_file"}, fields)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"vocals":"v.mp3","instrumental":"i.mp3"}`))
	})

	out, err := uc.RemoveVocals(context.Background(), entity.AudioUpload{
		Body:     []byte("RIFFdata"),
		Filename: "song.mp3",
		MimeType: "audio/mpeg",
	})
	require.NoError(t, err)
	assert.True(t, out.JSON)
	assert.JSONEq(t, `{"vocals":"v.mp3","instrumental":"i.mp3"}`, string(out.Body))
}

func TestRemoveVocalsDefaultsFilenameAndType(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		fh := r.MultipartForm.File["audio"]
		if !assert.Len(t, fh, 1) {
			return
		}
		assert.Equal(t, "audio.wav", fh[0].Filename)
		assert.Equal(t, "audio/wav", fh[0].Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("processing"))
	})

	out, err := uc.RemoveVocals(context.Background(), entity.AudioUpload{Body: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.False(t, out.JSON)
	assert.Equal(t, "processing", string(out.Body))
}

func TestRemoveVocalsTextThatParsesAsJSON(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	})

	out, err := uc.RemoveVocals(context.Background(), entity.AudioUpload{Body: []byte("x")})
	require.NoError(t, err)
	assert.True(t, out.JSON)
	assert.Equal(t, `{"status":"queued"}`, string(out.Body))
}

func TestRemoveVocalsUpstreamError(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("bad audio"))
	})

	_, err := uc.RemoveVocals(context.Background(), entity.AudioUpload{Body: []byte("x")})

	var upErr *entity.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnprocessableEntity, upErr.StatusCode)
	assert.Equal(t, "SplitBeat API error: bad audio", upErr.Summary)
}

func TestRemoveVocalsMissingUpload(t *testing.T) {
	uc, hits := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := uc.RemoveVocals(context.Background(), entity.AudioUpload{})

	var inErr *entity.InputError
	require.True(t, errors.As(err, &inErr))
	assert.Zero(t, *hits)
}
