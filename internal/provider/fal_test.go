package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path   string
	Auth   string
	Body   map[string]any
	Called int
}

func falServer(t *testing.T, captured *capturedRequest, status int, response string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/cat.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNGDATA"))
	})
	mux.HandleFunc("/fal-ai/", func(w http.ResponseWriter, r *http.Request) {
		captured.Called++
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured.Body))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFal(baseURL string) *FalClient {
	return NewFalClient("fal-key", baseURL, DefaultMediaDefaults(), http.DefaultClient, zerolog.Nop())
}

func TestFal_TextToImage(t *testing.T) {
	var captured capturedRequest
	srv := falServer(t, &captured, http.StatusOK, `{"images":[{"url":"https://cdn/sunset.png"}]}`)

	url, err := newTestFal(srv.URL).TextToImage(context.Background(), "a sunset")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/sunset.png", url)

	assert.Equal(t, "/"+modelTextToImage, captured.Path)
	assert.Equal(t, "Key fal-key", captured.Auth)
	assert.Equal(t, "a sunset", captured.Body["prompt"])
	assert.Equal(t, "1:1", captured.Body["aspect_ratio"])
	assert.EqualValues(t, 1, captured.Body["num_images"])
}

func TestFal_TextToImageNoImages(t *testing.T) {
	var captured capturedRequest
	srv := falServer(t, &captured, http.StatusOK, `{"images":[]}`)

	_, err := newTestFal(srv.URL).TextToImage(context.Background(), "a sunset")
	assert.EqualError(t, err, "image generation failed: no images returned from fal.ai")
}

func TestFal_StatusError(t *testing.T) {
	var captured capturedRequest
	srv := falServer(t, &captured, http.StatusUnauthorized, `{"detail":"bad key"}`)

	_, err := newTestFal(srv.URL).TextToVideo(context.Background(), "waves")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "bad key")
}

func TestFal_Videos(t *testing.T) {
	t.Run("text to video", func(t *testing.T) {
		var captured capturedRequest
		srv := falServer(t, &captured, http.StatusOK, `{"video":{"url":"https://cdn/waves.mp4"}}`)

		url, err := newTestFal(srv.URL).TextToVideo(context.Background(), "waves")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/waves.mp4", url)
		assert.Equal(t, "/"+modelTextToVideo, captured.Path)
		assert.Equal(t, "16:9", captured.Body["aspect_ratio"])
		assert.Equal(t, "720p", captured.Body["resolution"])
		assert.Equal(t, "5", captured.Body["duration"])
	})

	t.Run("image to video", func(t *testing.T) {
		var captured capturedRequest
		srv := falServer(t, &captured, http.StatusOK, `{"video":{"url":"https://cdn/clip.mp4"}}`)

		url, err := newTestFal(srv.URL).ImageToVideo(context.Background(), "https://cdn/cat.png", "zoom")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/clip.mp4", url)
		assert.Equal(t, "/"+modelImageToVideo, captured.Path)
		assert.Equal(t, "https://cdn/cat.png", captured.Body["image_url"])
		assert.Equal(t, "zoom", captured.Body["prompt"])
	})

	t.Run("missing video", func(t *testing.T) {
		var captured capturedRequest
		srv := falServer(t, &captured, http.StatusOK, `{}`)

		_, err := newTestFal(srv.URL).ImageToVideo(context.Background(), "https://cdn/cat.png", "zoom")
		assert.Error(t, err)
	})
}

func TestFal_ImageEditInlinesLocalImages(t *testing.T) {
	var captured capturedRequest
	srv := falServer(t, &captured, http.StatusOK, `{"images":[{"url":"https://cdn/edited.png"}]}`)

	url, err := newTestFal(srv.URL).ImageEdit(context.Background(), "make it blue", srv.URL+"/files/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/edited.png", url)

	assert.Equal(t, "/"+modelImageEdit, captured.Path)
	image, _ := captured.Body["image_url"].(string)
	assert.True(t, strings.HasPrefix(image, "data:image/png;base64,"), image)
}

func TestFal_ImageEditKeepsRemoteImages(t *testing.T) {
	var captured capturedRequest
	srv := falServer(t, &captured, http.StatusOK, `{"images":[{"url":"https://cdn/edited.png"}]}`)

	_, err := newTestFal(srv.URL).ImageEdit(context.Background(), "make it blue", "https://cdn/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/cat.png", captured.Body["image_url"])
}
