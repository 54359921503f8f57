package relay

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media_relay/entity"
)

func TestRefererFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://v16.tiktokcdn.com/video.mp4", refererTikTok},
		{"https://www.musical.ly/v/1", refererTikTok},
		{"https://scontent.cdninstagram.com/v.mp4", refererInstagram},
		{"https://instagram.fxyz1-1.fna.fbcdn.net/v.mp4", refererInstagram},
		{"https://rr3---sn-abc.googlevideo.com/videoplayback", refererYouTube},
		{"https://www.youtube.com/watch?v=1", refererYouTube},
		{"https://cdn.example.com/clip.mp4", refererYouTube},
		{"https://tiktok.example.com/instagram", refererTikTok},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RefererFor(tt.url))
		})
	}
}

func TestFetchVideoSendsBrowserHeaders(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, browserUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, refererTikTok, r.Header.Get("Referer"))
		assert.Equal(t, "identity", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "video", r.Header.Get("Sec-Fetch-Dest"))
		assert.Empty(t, r.Header.Get("Range"))
		assert.Empty(t, r.Header.Get("x-rapidapi-key"))

		w.Header().Set("Content-Type", "video/webm")
		_, _ = w.Write([]byte("0123456789"))
	})

	stream, err := uc.FetchVideo(context.Background(), entity.VideoStreamRequest{
		URL:   uc.upstream.LinkResolver.URL + "?src=tiktok",
		Range: "bytes=0-99",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("0123456789"), stream.Body)
	assert.Equal(t, "video/webm", stream.ContentType)
	assert.Equal(t, "10", stream.ContentLength)
	assert.Empty(t, stream.ContentRange)
}

func TestFetchVideoPropagatesRangeForYouTube(t *testing.T) {
	var gotRange []string
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		gotRange = append(gotRange, r.Header.Get("Range"))
		assert.Equal(t, refererYouTube, r.Header.Get("Referer"))

		w.Header().Set("Content-Range", "bytes 0-3/100")
		// no Content-Type at all, not even a sniffed one
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("abcd"))
	})
	target := uc.upstream.LinkResolver.URL + "?host=googlevideo.com"

	stream, err := uc.FetchVideo(context.Background(), entity.VideoStreamRequest{URL: target, Range: "bytes=0-3"})
	require.NoError(t, err)
	assert.Equal(t, "bytes 0-3/100", stream.ContentRange)
	assert.Equal(t, defaultVideoContentType, stream.ContentType)

	_, err = uc.FetchVideo(context.Background(), entity.VideoStreamRequest{URL: target})
	require.NoError(t, err)

	assert.Equal(t, []string{"bytes=0-3", "bytes=0-"}, gotRange)
}

func TestFetchVideoUpstreamErrorTruncatesDetails(t *testing.T) {
	uc, _ := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strings.Repeat("x", 800)))
	})

	_, err := uc.FetchVideo(context.Background(), entity.VideoStreamRequest{URL: uc.upstream.LinkResolver.URL})

	var upErr *entity.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
	assert.Equal(t, "Video download failed: 403", upErr.Summary)
	assert.Len(t, upErr.Details, errorDetailsLimit)
}

func TestFetchVideoMissingURL(t *testing.T) {
	uc, hits := newTestUsecase(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := uc.FetchVideo(context.Background(), entity.VideoStreamRequest{})

	var inErr *entity.InputError
	require.True(t, errors.As(err, &inErr))
	assert.Zero(t, *hits)
}
