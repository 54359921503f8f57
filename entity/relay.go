package entity

import "context"

// RelayUsecase forwards one inbound request to its upstream and maps the result back.
type RelayUsecase interface {
	ResolveLink(ctx context.Context, req DownloadRequest) ([]byte, error)
	FetchVideo(ctx context.Context, req VideoStreamRequest) (*VideoStream, error)
	RemoveVocals(ctx context.Context, upload AudioUpload) (*UpstreamBody, error)
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

type DownloadRequest struct {
	URL string `json:"url" binding:"required" example:"https://www.tiktok.com/@user/video/1"`
}

type VideoStreamRequest struct {
	URL   string
	Range string
}

// VideoStream is a fully buffered upstream video body with the headers worth relaying.
type VideoStream struct {
	Body          []byte
	ContentType   string
	ContentLength string
	ContentRange  string
}

type AudioUpload struct {
	Body     []byte
	Filename string
	MimeType string
}

// TranscriptionRequest carries either raw audio bytes or audio already encoded as base64.
type TranscriptionRequest struct {
	Audio       []byte
	Base64Audio string
	Language    string
}

// UpstreamBody is an upstream payload that is either JSON or plain text.
type UpstreamBody struct {
	Body []byte
	JSON bool
}
