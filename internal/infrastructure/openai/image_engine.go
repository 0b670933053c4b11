package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

const defaultImageModel = openai.ImageModelDallE3

// ImageEngine generates cover art as base64 PNG data.
type ImageEngine struct {
	client openai.Client
	model  openai.ImageModel
	log    zerolog.Logger
}

func NewImageEngine(apiKey, model string, log zerolog.Logger) *ImageEngine {
	m := defaultImageModel
	if model != "" {
		m = openai.ImageModel(model)
	}
	return &ImageEngine{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
		log:    log,
	}
}

func (e *ImageEngine) GenerateCover(ctx context.Context, prompt string) ([]byte, string, error) {
	resp, err := e.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         "Book cover illustration, no text or lettering, for an interactive adventure: " + prompt,
		Model:          e.model,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, "", fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, "", fmt.Errorf("generate image: empty response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	return data, "image/png", nil
}
