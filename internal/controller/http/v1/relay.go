package v1

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"media_relay/entity"
	"media_relay/pkg/logger"
)

const traceName = "http-v1"

type relayRoutes struct {
	ru entity.RelayUsecase
	l  logger.Interface
}

func newRelayRoutes(handler *gin.RouterGroup, ru entity.RelayUsecase, l logger.Interface) {
	r := &relayRoutes{ru, l}

	h := handler.Group("/api")
	{
		h.POST("/download", r.download)
		h.GET("/video-download", r.videoDownload)
		h.POST("/vocal-remover", r.vocalRemover)
		h.POST("/transcribe", r.transcribe)
	}
}

// @Summary     Resolve download links
// @Description Forwards {url} to the social-video link resolver and returns its JSON unchanged
// @ID          download
// @Tags  	    relay
// @Accept      json
// @Produce     json
// @Param       request body entity.DownloadRequest true "Video page URL"
// @Success     200 {object} object
// @Failure     400 {object} response
// @Failure     500 {object} response
// @Router      /api/download [post]
func (r *relayRoutes) download(c *gin.Context) {
	ctx, span := otel.Tracer(traceName).Start(c.Request.Context(), "download-api")
	defer span.End()

	var req entity.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if bodyTooLarge(err) {
			errorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		errorResponse(c, http.StatusBadRequest, "Missing required field: url")
		return
	}

	body, err := r.ru.ResolveLink(ctx, req)
	if err != nil {
		r.relayError(c, err, "http - v1 - download")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// @Summary     Relay a video file
// @Description Downloads the video at url with browser-like headers; honours Range for YouTube hosts
// @ID          video-download
// @Tags  	    relay
// @Produce     octet-stream
// @Param       url   query  string true  "Direct video URL"
// @Param       Range header string false "Byte range"
// @Success     200
// @Success     206
// @Failure     400 {object} response
// @Failure     500 {object} response
// @Router      /api/video-download [get]
func (r *relayRoutes) videoDownload(c *gin.Context) {
	ctx, span := otel.Tracer(traceName).Start(c.Request.Context(), "video-download-api")
	defer span.End()

	videoURL := c.Query("url")
	if videoURL == "" {
		errorResponse(c, http.StatusBadRequest, "Missing required query parameter: url")
		return
	}

	stream, err := r.ru.FetchVideo(ctx, entity.VideoStreamRequest{URL: videoURL, Range: c.GetHeader("Range")})
	if err != nil {
		r.relayError(c, err, "http - v1 - videoDownload")
		return
	}

	// A length that disagrees with the buffered body would corrupt the response.
	if stream.ContentLength == strconv.Itoa(len(stream.Body)) {
		c.Header("Content-Length", stream.ContentLength)
	}

	status := http.StatusOK
	if stream.ContentRange != "" {
		c.Header("Content-Range", stream.ContentRange)
		status = http.StatusPartialContent
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	c.Data(status, stream.ContentType, stream.Body)
}

// @Summary     Separate vocals
// @Description Forwards an uploaded audio file to the vocal remover
// @ID          vocal-remover
// @Tags  	    relay
// @Accept      mpfd
// @Produce     json,plain
// @Param       file formData file true "Audio file (also accepted as audio, audio_file or upload)"
// @Success     200
// @Failure     400 {object} response
// @Failure     500 {object} response
// @Router      /api/vocal-remover [post]
func (r *relayRoutes) vocalRemover(c *gin.Context) {
	ctx, span := otel.Tracer(traceName).Start(c.Request.Context(), "vocal-remover-api")
	defer span.End()

	form, err := c.MultipartForm()
	if err != nil && bodyTooLarge(err) {
		errorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	fh, field := vocalFileFields.file(form)
	if fh == nil {
		r.l.Warn("http - v1 - vocalRemover - no file found in upload: content-type=%q fields=%v",
			c.ContentType(), receivedFields(form))
		errorResponse(c, http.StatusBadRequest, `Missing audio file. Expected multipart/form-data with "file" or "audio" field.`)
		return
	}
	span.SetAttributes(attribute.String("upload.field", field))

	data, err := readFile(fh)
	if err != nil {
		r.relayError(c, err, "http - v1 - vocalRemover")
		return
	}

	out, err := r.ru.RemoveVocals(ctx, entity.AudioUpload{
		Body:     data,
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		r.relayError(c, err, "http - v1 - vocalRemover")
		return
	}

	if out.JSON {
		c.Data(http.StatusOK, "application/json; charset=utf-8", out.Body)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", out.Body)
}

// @Summary     Transcribe audio
// @Description Sends audio (multipart file or base64 form value) to the speech API and returns plain text
// @ID          transcribe
// @Tags  	    relay
// @Accept      mpfd,x-www-form-urlencoded
// @Produce     plain
// @Param       language query    string false "Language code" default(en)
// @Param       file     formData file   false "Audio file (also accepted as audio, audio_data or data)"
// @Param       audio    formData string false "Base64 audio (also accepted as file, audio_data or data)"
// @Success     200 {string} string
// @Failure     400 {object} response
// @Failure     500 {object} response
// @Router      /api/transcribe [post]
func (r *relayRoutes) transcribe(c *gin.Context) {
	ctx, span := otel.Tracer(traceName).Start(c.Request.Context(), "transcribe-api")
	defer span.End()

	req := entity.TranscriptionRequest{Language: c.Query("language")}

	form, err := c.MultipartForm()
	switch {
	case err == nil:
		if fh, _ := transcribeFileFields.file(form); fh != nil {
			data, err := readFile(fh)
			if err != nil {
				r.relayError(c, err, "http - v1 - transcribe")
				return
			}
			req.Audio = data
		} else {
			req.Base64Audio, _ = transcribeBodyKeys.value(form.Value)
		}
	case bodyTooLarge(err):
		errorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	default:
		if err := c.Request.ParseForm(); err != nil {
			if bodyTooLarge(err) {
				errorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.l.Debug("http - v1 - transcribe - ParseForm: %v", err)
		}
		req.Base64Audio, _ = transcribeBodyKeys.value(c.Request.PostForm)
	}

	if req.Audio == nil && req.Base64Audio == "" {
		errorResponse(c, http.StatusBadRequest,
			`Missing audio data. Expected multipart/form-data with "file" or "audio" field, or base64 audio in body.`)
		return
	}

	text, err := r.ru.Transcribe(ctx, req)
	if err != nil {
		r.relayError(c, err, "http - v1 - transcribe")
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	return data, nil
}
