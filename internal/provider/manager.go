package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mediaflow/internal/engine"

	"github.com/rs/zerolog"
)

var (
	ErrOpenAINotConfigured = errors.New("OpenAI API key not configured")
	ErrFalNotConfigured    = errors.New("fal.ai API key not configured")
)

const (
	TextBackendOpenAI = "openai"
	TextBackendOllama = "ollama"
)

// TextBackend serves text and vision operations.
type TextBackend interface {
	CombineText(ctx context.Context, texts []string) (string, error)
	DescribeImage(ctx context.Context, image, prompt string) (string, error)
}

// MediaBackend serves image and video generation.
type MediaBackend interface {
	TextToImage(ctx context.Context, prompt string) (string, error)
	TextToVideo(ctx context.Context, prompt string) (string, error)
	ImageEdit(ctx context.Context, prompt, image string) (string, error)
	ImageToVideo(ctx context.Context, image, prompt string) (string, error)
}

// Keys holds the credentials of one caller. Empty means not configured.
type Keys struct {
	OpenAI string `json:"openai_api_key,omitempty"`
	Fal    string `json:"fal_api_key,omitempty"`
}

func (k Keys) Empty() bool {
	return k.OpenAI == "" && k.Fal == ""
}

// Merge returns k with blank fields filled from fallback.
func (k Keys) Merge(fallback Keys) Keys {
	if k.OpenAI == "" {
		k.OpenAI = fallback.OpenAI
	}
	if k.Fal == "" {
		k.Fal = fallback.Fal
	}
	return k
}

type Config struct {
	TextBackend   string
	OpenAIBaseURL string
	OpenAIModel   string
	OllamaHost    string
	OllamaModel   string
	FalBaseURL    string
	Media         MediaDefaults
	HTTPTimeout   time.Duration
}

// Manager routes each operation to the backend that serves it.
type Manager struct {
	text   TextBackend
	media  MediaBackend
	logger zerolog.Logger
}

var _ engine.OperationProvider = (*Manager)(nil)

// NewManager builds the backends keys allow. Missing backends make the
// matching operations fail with a "not configured" error.
func NewManager(cfg Config, keys Keys, logger zerolog.Logger) *Manager {
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	var text TextBackend
	switch {
	case cfg.TextBackend == TextBackendOllama && cfg.OllamaHost != "":
		text = NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, client, logger.With().Str("provider", "ollama").Logger())
	case keys.OpenAI != "":
		text = NewOpenAIClient(keys.OpenAI, cfg.OpenAIBaseURL, cfg.OpenAIModel, client, logger.With().Str("provider", "openai").Logger())
	}

	var media MediaBackend
	if keys.Fal != "" {
		media = NewFalClient(keys.Fal, cfg.FalBaseURL, cfg.Media, client, logger.With().Str("provider", "fal").Logger())
	}

	return NewManagerWith(text, media, logger)
}

// NewManagerWith wires explicit backends. Either may be nil.
func NewManagerWith(text TextBackend, media MediaBackend, logger zerolog.Logger) *Manager {
	return &Manager{text: text, media: media, logger: logger}
}

func (slf *Manager) TextConfigured() bool  { return slf.text != nil }
func (slf *Manager) MediaConfigured() bool { return slf.media != nil }

func (slf *Manager) CombineText(ctx context.Context, texts []string) (string, error) {
	if slf.text == nil {
		return "", ErrOpenAINotConfigured
	}
	return slf.text.CombineText(ctx, texts)
}

func (slf *Manager) DescribeImage(ctx context.Context, image, prompt string) (string, error) {
	if slf.text == nil {
		return "", ErrOpenAINotConfigured
	}
	return slf.text.DescribeImage(ctx, image, prompt)
}

func (slf *Manager) TextToImage(ctx context.Context, prompt string) (string, error) {
	if slf.media == nil {
		return "", ErrFalNotConfigured
	}
	return slf.media.TextToImage(ctx, prompt)
}

func (slf *Manager) TextToVideo(ctx context.Context, prompt string) (string, error) {
	if slf.media == nil {
		return "", ErrFalNotConfigured
	}
	return slf.media.TextToVideo(ctx, prompt)
}

func (slf *Manager) ImageEdit(ctx context.Context, prompt, image string) (string, error) {
	if slf.media == nil {
		return "", ErrFalNotConfigured
	}
	return slf.media.ImageEdit(ctx, prompt, image)
}

func (slf *Manager) ImageToVideo(ctx context.Context, image, prompt string) (string, error) {
	if slf.media == nil {
		return "", ErrFalNotConfigured
	}
	return slf.media.ImageToVideo(ctx, image, prompt)
}
