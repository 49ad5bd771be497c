package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o"

	describePrompt = "Please provide a detailed description of this image, including objects, people, setting, colors, and any text visible in the image."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient answers text operations with the chat completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  zerolog.Logger
}

func NewOpenAIClient(apiKey, baseURL, model string, client *http.Client, logger zerolog.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    client,
		logger:  logger,
	}
}

func combinePrompt(texts []string) string {
	var sb strings.Builder
	sb.WriteString("Please combine and synthesize the following text inputs into a coherent, comprehensive response:\n\n")
	for i, t := range texts {
		fmt.Fprintf(&sb, "Input %d: %s\n", i+1, t)
	}
	sb.WriteString("\nCreate a well-structured response that incorporates the key information from all inputs.")
	return sb.String()
}

func (slf *OpenAIClient) CombineText(ctx context.Context, texts []string) (string, error) {
	slf.logger.Info().Int("inputs", len(texts)).Msg("combining text inputs")

	temperature := 0.7
	out, err := slf.complete(ctx, chatCompletionRequest{
		Model:       slf.model,
		Messages:    []chatMessage{{Role: "user", Content: combinePrompt(texts)}},
		MaxTokens:   1000,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("text processing failed: %w", err)
	}
	return out, nil
}

// DescribeImage answers prompt about the image, or describes it when prompt is empty.
func (slf *OpenAIClient) DescribeImage(ctx context.Context, image, prompt string) (string, error) {
	if prompt == "" {
		prompt = describePrompt
	}
	slf.logger.Info().Str("image", image).Msg("analyzing image")

	out, err := slf.complete(ctx, chatCompletionRequest{
		Model: slf.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: image}},
			},
		}},
		MaxTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	return out, nil
}

func (slf *OpenAIClient) complete(ctx context.Context, req chatCompletionRequest) (string, error) {
	var resp chatCompletionResponse
	headers := map[string]string{"Authorization": "Bearer " + slf.apiKey}
	if err := postJSON(ctx, slf.http, "openai", slf.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no completion returned from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
