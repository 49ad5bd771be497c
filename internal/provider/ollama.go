package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultOllamaModel = "llava"

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaApiCall struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options"`
}

type ollamaRawResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

func (slf *ollamaApiCall) new(model string, temperature float64, messages ...ollamaMessage) *ollamaApiCall {
	return &ollamaApiCall{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature": temperature,
		},
	}
}

// OllamaClient is the self-hosted text backend. Images are sent inline since
// the chat endpoint only accepts base64 payloads.
type OllamaClient struct {
	host   string
	model  string
	http   *http.Client
	logger zerolog.Logger
}

func NewOllamaClient(host, model string, client *http.Client, logger zerolog.Logger) *OllamaClient {
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		http:   client,
		logger: logger,
	}
}

func (slf *OllamaClient) CombineText(ctx context.Context, texts []string) (string, error) {
	call := (&ollamaApiCall{}).new(slf.model, 0.7, ollamaMessage{Role: "user", Content: combinePrompt(texts)})
	out, err := slf.chat(ctx, call)
	if err != nil {
		return "", fmt.Errorf("text processing failed: %w", err)
	}
	return out, nil
}

func (slf *OllamaClient) DescribeImage(ctx context.Context, image, prompt string) (string, error) {
	if prompt == "" {
		prompt = describePrompt
	}

	encoded, err := slf.encodeImage(ctx, image)
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}

	call := (&ollamaApiCall{}).new(slf.model, 0, ollamaMessage{Role: "user", Content: prompt, Images: []string{encoded}})
	out, err := slf.chat(ctx, call)
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	return out, nil
}

// encodeImage returns the raw base64 payload for image, which may already be a data URI.
func (slf *OllamaClient) encodeImage(ctx context.Context, image string) (string, error) {
	if strings.HasPrefix(image, "data:") {
		if i := strings.Index(image, ","); i >= 0 {
			return image[i+1:], nil
		}
		return "", errors.New("malformed data URI")
	}

	data, _, err := fetchImage(ctx, slf.http, image)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (slf *OllamaClient) chat(ctx context.Context, call *ollamaApiCall) (string, error) {
	var raw ollamaRawResponse
	if err := postJSON(ctx, slf.http, "ollama", fmt.Sprintf("%s/api/chat", slf.host), nil, call, &raw); err != nil {
		return "", err
	}

	if !raw.Done {
		return "", fmt.Errorf("llama call not done")
	}
	if raw.Message.Content == "" {
		return "", errors.New("empty response from ollama")
	}
	return raw.Message.Content, nil
}
