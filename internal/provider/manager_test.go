package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_NotConfigured(t *testing.T) {
	m := NewManager(Config{HTTPTimeout: time.Second}, Keys{}, zerolog.Nop())
	ctx := context.Background()

	assert.False(t, m.TextConfigured())
	assert.False(t, m.MediaConfigured())

	_, err := m.CombineText(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrOpenAINotConfigured)
	_, err = m.DescribeImage(ctx, "img", "")
	assert.ErrorIs(t, err, ErrOpenAINotConfigured)
	_, err = m.TextToImage(ctx, "x")
	assert.ErrorIs(t, err, ErrFalNotConfigured)
	_, err = m.TextToVideo(ctx, "x")
	assert.ErrorIs(t, err, ErrFalNotConfigured)
	_, err = m.ImageEdit(ctx, "x", "img")
	assert.ErrorIs(t, err, ErrFalNotConfigured)
	_, err = m.ImageToVideo(ctx, "img", "x")
	assert.EqualError(t, err, "fal.ai API key not configured")
}

func TestManager_BuildsBackendsFromKeys(t *testing.T) {
	m := NewManager(Config{}, Keys{OpenAI: "sk", Fal: "fk"}, zerolog.Nop())
	assert.True(t, m.TextConfigured())
	assert.True(t, m.MediaConfigured())
	assert.IsType(t, &OpenAIClient{}, m.text)
	assert.IsType(t, &FalClient{}, m.media)
}

func TestManager_OllamaTextBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var call ollamaApiCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		assert.False(t, call.Stream)
		_, _ = w.Write([]byte(`{"model":"llava","message":{"content":"combined"},"done":true}`))
	}))
	defer srv.Close()

	m := NewManager(Config{TextBackend: TextBackendOllama, OllamaHost: srv.URL}, Keys{}, zerolog.Nop())
	require.True(t, m.TextConfigured())
	assert.False(t, m.MediaConfigured())

	out, err := m.CombineText(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "combined", out)
}

func TestOllama_DescribeImageSendsBase64(t *testing.T) {
	var call ollamaApiCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		_, _ = w.Write([]byte(`{"message":{"content":"a cat"},"done":true}`))
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "", http.DefaultClient, zerolog.Nop())
	out, err := client.DescribeImage(context.Background(), "data:image/png;base64,QUJD", "")
	require.NoError(t, err)
	assert.Equal(t, "a cat", out)

	require.Len(t, call.Messages, 1)
	assert.Equal(t, []string{"QUJD"}, call.Messages[0].Images)
	assert.Equal(t, describePrompt, call.Messages[0].Content)
	assert.Equal(t, DefaultOllamaModel, call.Model)
}

func TestOllama_NotDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"content":"partial"},"done":false}`))
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "", http.DefaultClient, zerolog.Nop())
	_, err := client.CombineText(context.Background(), []string{"a", "b"})
	assert.EqualError(t, err, "text processing failed: llama call not done")
}

type failingMedia struct{}

func (failingMedia) TextToImage(context.Context, string) (string, error) {
	return "", errors.New("Service error")
}
func (failingMedia) TextToVideo(context.Context, string) (string, error)         { return "", nil }
func (failingMedia) ImageEdit(context.Context, string, string) (string, error)    { return "", nil }
func (failingMedia) ImageToVideo(context.Context, string, string) (string, error) { return "", nil }

func TestManager_PassesBackendErrorsThrough(t *testing.T) {
	m := NewManagerWith(nil, failingMedia{}, zerolog.Nop())
	_, err := m.TextToImage(context.Background(), "x")
	assert.EqualError(t, err, "Service error")
}

func TestKeys_Merge(t *testing.T) {
	k := Keys{OpenAI: "user"}.Merge(Keys{OpenAI: "env", Fal: "env-fal"})
	assert.Equal(t, Keys{OpenAI: "user", Fal: "env-fal"}, k)
	assert.True(t, Keys{}.Empty())
	assert.False(t, k.Empty())
}
