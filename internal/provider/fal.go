package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultFalBaseURL = "https://fal.run"

const (
	modelTextToImage  = "fal-ai/imagen4/preview/fast"
	modelTextToVideo  = "fal-ai/bytedance/seedance/v1/lite/text-to-video"
	modelImageEdit    = "fal-ai/flux-pro/kontext"
	modelImageToVideo = "fal-ai/bytedance/seedance/v1/lite/image-to-video"
)

// MediaDefaults are the generation parameters sent with every fal.ai request.
type MediaDefaults struct {
	ImageAspectRatio string
	VideoAspectRatio string
	Resolution       string
	Duration         string
}

func DefaultMediaDefaults() MediaDefaults {
	return MediaDefaults{
		ImageAspectRatio: "1:1",
		VideoAspectRatio: "16:9",
		Resolution:       "720p",
		Duration:         "5",
	}
}

type falFile struct {
	URL string `json:"url"`
}

type falImagesResponse struct {
	Images []falFile `json:"images"`
}

type falVideoResponse struct {
	Video *falFile `json:"video"`
}

// FalClient runs image and video models through the synchronous fal.run endpoint.
type FalClient struct {
	apiKey   string
	baseURL  string
	defaults MediaDefaults
	http     *http.Client
	logger   zerolog.Logger
}

func NewFalClient(apiKey, baseURL string, defaults MediaDefaults, client *http.Client, logger zerolog.Logger) *FalClient {
	if baseURL == "" {
		baseURL = DefaultFalBaseURL
	}
	return &FalClient{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		defaults: defaults,
		http:     client,
		logger:   logger,
	}
}

func (slf *FalClient) TextToImage(ctx context.Context, prompt string) (string, error) {
	slf.logger.Info().Str("model", modelTextToImage).Msg("generating image")

	var resp falImagesResponse
	err := slf.run(ctx, modelTextToImage, map[string]any{
		"prompt":       prompt,
		"aspect_ratio": slf.defaults.ImageAspectRatio,
		"num_images":   1,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Images) == 0 || resp.Images[0].URL == "" {
		return "", errors.New("image generation failed: no images returned from fal.ai")
	}
	return resp.Images[0].URL, nil
}

func (slf *FalClient) TextToVideo(ctx context.Context, prompt string) (string, error) {
	slf.logger.Info().Str("model", modelTextToVideo).Msg("generating video")

	var resp falVideoResponse
	err := slf.run(ctx, modelTextToVideo, map[string]any{
		"prompt":       prompt,
		"aspect_ratio": slf.defaults.VideoAspectRatio,
		"resolution":   slf.defaults.Resolution,
		"duration":     slf.defaults.Duration,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("video generation failed: %w", err)
	}
	return videoURL(resp)
}

// ImageEdit edits image according to prompt. Local images are inlined first
// because fal.ai cannot fetch them.
func (slf *FalClient) ImageEdit(ctx context.Context, prompt, image string) (string, error) {
	if isLocalURL(image) {
		inlined, err := toDataURI(ctx, slf.http, image)
		if err != nil {
			slf.logger.Warn().Err(err).Str("image", image).Msg("could not inline local image, sending url")
		} else {
			image = inlined
		}
	}
	slf.logger.Info().Str("model", modelImageEdit).Msg("editing image")

	var resp falImagesResponse
	err := slf.run(ctx, modelImageEdit, map[string]any{
		"prompt":    prompt,
		"image_url": image,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("image editing failed: %w", err)
	}
	if len(resp.Images) == 0 || resp.Images[0].URL == "" {
		return "", errors.New("image editing failed: no edited image returned from fal.ai")
	}
	return resp.Images[0].URL, nil
}

func (slf *FalClient) ImageToVideo(ctx context.Context, image, prompt string) (string, error) {
	slf.logger.Info().Str("model", modelImageToVideo).Str("image", image).Msg("generating video from image")

	var resp falVideoResponse
	err := slf.run(ctx, modelImageToVideo, map[string]any{
		"image_url":  image,
		"prompt":     prompt,
		"resolution": slf.defaults.Resolution,
		"duration":   slf.defaults.Duration,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("video generation from image failed: %w", err)
	}
	return videoURL(resp)
}

func (slf *FalClient) run(ctx context.Context, model string, input map[string]any, out any) error {
	headers := map[string]string{"Authorization": "Key " + slf.apiKey}
	return postJSON(ctx, slf.http, "fal.ai", slf.baseURL+"/"+model, headers, input, out)
}

func videoURL(resp falVideoResponse) (string, error) {
	if resp.Video == nil || resp.Video.URL == "" {
		return "", errors.New("video generation failed: no video returned from fal.ai")
	}
	return resp.Video.URL, nil
}
